package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/momentum/internal/api"
	"github.com/mtlprog/momentum/internal/domain"
)

func newServer(t *testing.T, h http.HandlerFunc) *api.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return api.New(srv.URL+"/", "secret", 5*time.Second)
}

func TestClient_RequestHeaders(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/departments", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, err := uuid.Parse(r.Header.Get("X-Request-ID"))
		assert.NoError(t, err)

		w.Write([]byte(`[{"id":1,"name":"Design"},{"id":2,"name":"Marketing"}]`))
	})

	deps, err := client.Departments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Department{{ID: 1, Name: "Design"}, {ID: 2, Name: "Marketing"}}, deps)
}

func TestClient_Tasks(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{
			"id": 5,
			"name": "Fix login",
			"description": "",
			"due_date": "2025-03-12T00:00:00.000000Z",
			"department": {"id": 1, "name": "Design"},
			"employee": {"id": 7, "name": "Nino", "surname": "Beridze", "avatar": "https://x/a.png", "department": {"id": 1, "name": "Design"}},
			"status": {"id": 2, "name": "In progress"},
			"priority": {"id": 3, "name": "High", "icon": "https://x/high.svg"},
			"total_comments": 4
		}]`))
	})

	tasks, err := client.Tasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Nino Beridze", tasks[0].Employee.FullName())
	assert.Equal(t, 2, tasks[0].Status.ID)
	assert.Equal(t, "High", tasks[0].Priority.Name)
	assert.Equal(t, 4, tasks[0].TotalComments)
}

func TestClient_StatusError(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
	})

	_, err := client.Statuses(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRemote)
	assert.NotErrorIs(t, err, domain.ErrNotFound)

	var se *api.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Contains(t, se.Body, "boom")
}

func TestClient_NotFound(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.Task(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrRemote)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client := api.New(srv.URL, "", time.Second)
	_, err := client.Priorities(context.Background())
	assert.ErrorIs(t, err, domain.ErrRemote)
}

func TestClient_CreateTask(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/tasks", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Fix login", body["name"])
		assert.Equal(t, "2025-03-12", body["due_date"])
		assert.EqualValues(t, 1, body["status_id"])
		assert.EqualValues(t, 7, body["employee_id"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":11,"name":"Fix login"}`))
	})

	task, err := client.CreateTask(context.Background(), domain.NewTask{
		Name:         "Fix login",
		DueDate:      "2025-03-12",
		StatusID:     1,
		EmployeeID:   7,
		PriorityID:   2,
		DepartmentID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 11, task.ID)
}

func TestClient_UpdateTaskStatus(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/tasks/5", r.URL.Path)

		raw, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"status_id":3}`, string(raw))

		w.Write([]byte(`{"id":5,"status":{"id":3,"name":"Ready"}}`))
	})

	task, err := client.UpdateTaskStatus(context.Background(), 5, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, task.Status.ID)
}

func TestClient_TaskComments(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tasks/5/comments", r.URL.Path)
		w.Write([]byte(`[{
			"id": 1,
			"text": "Looks good",
			"task_id": 5,
			"parent_id": null,
			"author_nickname": "nino",
			"author_avatar": "https://x/n.png",
			"created_at": "2025-03-10T12:00:00.000000Z",
			"sub_comments": [
				{"id": 2, "text": "Thanks", "task_id": 5, "parent_id": 1, "author_nickname": "giorgi", "created_at": "2025-03-10T13:00:00Z"}
			]
		}]`))
	})

	comments, err := client.TaskComments(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, comments, 1)

	top := comments[0]
	assert.True(t, top.IsTopLevel())
	assert.Equal(t, "nino", top.Author.Name)
	assert.Equal(t, 2025, top.CreatedAt.Year())
	require.Len(t, top.Replies, 1)
	assert.Equal(t, "giorgi", top.Replies[0].Author.Name)
	require.NotNil(t, top.Replies[0].ParentID)
	assert.Equal(t, 1, *top.Replies[0].ParentID)
}

func TestClient_CreateComment(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"text":"Agreed","parent_id":1}`, string(raw))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":3,"text":"Agreed","task_id":5,"parent_id":1,"author_nickname":"me"}`))
	})

	parent := 1
	c, err := client.CreateComment(context.Background(), 5, "Agreed", &parent)
	require.NoError(t, err)
	assert.Equal(t, 3, c.ID)
	assert.Equal(t, "me", c.Author.Name)
}

func TestClient_CreateEmployee(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Nino", r.FormValue("name"))
		assert.Equal(t, "Beridze", r.FormValue("surname"))
		assert.Equal(t, "2", r.FormValue("department_id"))

		file, header, err := r.FormFile("avatar")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		assert.Equal(t, "me.png", header.Filename)
		assert.Equal(t, "image/png", header.Header.Get("Content-Type"))
		data, _ := io.ReadAll(file)
		assert.Equal(t, []byte{1, 2, 3}, data)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":9,"name":"Nino","surname":"Beridze"}`))
	})

	emp, err := client.CreateEmployee(context.Background(), domain.NewEmployee{
		Name:         "Nino",
		Surname:      "Beridze",
		DepartmentID: 2,
		Avatar:       &domain.File{Name: "me.png", ContentType: "image/png", Data: []byte{1, 2, 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, 9, emp.ID)
}
