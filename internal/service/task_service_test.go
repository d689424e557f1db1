package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mtlprog/momentum/internal/domain"
	"github.com/mtlprog/momentum/internal/service"
)

type TaskServiceTestSuite struct {
	suite.Suite
	ctx context.Context
	api *fakeAPI
	svc *service.TaskService
}

func TestTaskServiceSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}

func (s *TaskServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.api = newFakeAPI()
	s.api.tasks = []domain.Task{{ID: 5, Name: "Fix login", Status: domain.Status{ID: 1, Name: "Starting"}}}

	parent := 1
	s.api.comments[5] = []domain.Comment{
		{ID: 1, Text: "Top", TaskID: 5, Replies: []domain.Comment{
			{ID: 2, Text: "Reply", TaskID: 5, ParentID: &parent},
		}},
	}
	s.svc = service.NewTaskService(s.api)
}

func (s *TaskServiceTestSuite) TestGet() {
	detail, err := s.svc.Get(s.ctx, 5)
	s.Require().NoError(err)

	s.Equal("Fix login", detail.Task.Name)
	s.Len(detail.Statuses, 4)
	s.Len(detail.Comments, 1)
}

func (s *TaskServiceTestSuite) TestGet_NotFound() {
	_, err := s.svc.Get(s.ctx, 404)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *TaskServiceTestSuite) TestChangeStatus() {
	task, err := s.svc.ChangeStatus(s.ctx, 5, 3)
	s.Require().NoError(err)
	s.Equal(3, task.Status.ID)
	s.Equal([][2]int{{5, 3}}, s.api.statusUpdates)

	_, err = s.svc.ChangeStatus(s.ctx, 5, 9)
	s.ErrorIs(err, domain.ErrStatusNotFound)
	s.Len(s.api.statusUpdates, 1)
}

func (s *TaskServiceTestSuite) TestAddComment_TrimsText() {
	c, err := s.svc.AddComment(s.ctx, 5, "  Looks good \n", nil)
	s.Require().NoError(err)
	s.Equal("Looks good", c.Text)
}

func (s *TaskServiceTestSuite) TestAddComment_Empty() {
	_, err := s.svc.AddComment(s.ctx, 5, "   ", nil)
	s.ErrorIs(err, domain.ErrEmptyComment)
	s.Empty(s.api.createdComments)
}

func (s *TaskServiceTestSuite) TestAddComment_Replies() {
	top := 1
	c, err := s.svc.AddComment(s.ctx, 5, "Agreed", &top)
	s.Require().NoError(err)
	s.Equal(1, *c.ParentID)

	nested := 2
	_, err = s.svc.AddComment(s.ctx, 5, "Deeper", &nested)
	s.ErrorIs(err, domain.ErrNestedReply)

	missing := 77
	_, err = s.svc.AddComment(s.ctx, 5, "Lost", &missing)
	s.ErrorIs(err, domain.ErrNotFound)

	s.Equal([]string{"Agreed"}, s.api.createdComments)
}
