package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mtlprog/momentum/internal/domain"
	"github.com/mtlprog/momentum/internal/filter"
	"github.com/mtlprog/momentum/internal/service"
)

type BoardServiceTestSuite struct {
	suite.Suite
	ctx   context.Context
	api   *fakeAPI
	state *memState
	svc   *service.BoardService
}

func TestBoardServiceSuite(t *testing.T) {
	suite.Run(t, new(BoardServiceTestSuite))
}

func (s *BoardServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.api = newFakeAPI()
	s.api.tasks = []domain.Task{
		{ID: 1, Department: design, Employee: nino, Priority: domain.Priority{ID: 3, Name: "High"}, Status: domain.Status{ID: 1}},
		{ID: 2, Department: marketing, Employee: giorgi, Priority: domain.Priority{ID: 1, Name: "Low"}, Status: domain.Status{ID: 1}},
		{ID: 3, Department: design, Employee: nino, Priority: domain.Priority{ID: 1, Name: "Low"}, Status: domain.Status{ID: 4}},
	}
	s.state = newMemState()
	s.svc = service.NewBoardService(s.api, filter.New(s.ctx, s.state))
}

func (s *BoardServiceTestSuite) TestBoard_Unfiltered() {
	b, err := s.svc.Board(s.ctx)
	s.Require().NoError(err)

	s.Equal(3, b.Total)
	s.Require().Len(b.Columns[0].Tasks, 2)
	s.Equal(2, b.Columns[0].Tasks[0].ID)
	s.Equal("Starting", b.Columns[0].Status.Name)
}

func (s *BoardServiceTestSuite) TestToggleApplyFilters() {
	view, err := s.svc.ToggleFilter(s.ctx, domain.FilterDepartment, "1")
	s.Require().NoError(err)
	s.Len(view.Staged.Departments, 1)
	s.Empty(view.Applied.Departments)
	s.False(view.HasFilters)

	b, err := s.svc.Board(s.ctx)
	s.Require().NoError(err)
	s.Equal(3, b.Total, "staged filters do not affect the board")

	view = s.svc.ApplyFilters(s.ctx)
	s.Equal([]domain.FilterChip{{Category: domain.FilterDepartment, Key: "1", Label: "Design"}}, view.Chips)
	s.True(view.HasFilters)

	b, err = s.svc.Board(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, b.Total)
}

func (s *BoardServiceTestSuite) TestToggleFilter_PriorityByNameOrID() {
	_, err := s.svc.ToggleFilter(s.ctx, domain.FilterPriority, "High")
	s.Require().NoError(err)
	view, err := s.svc.ToggleFilter(s.ctx, domain.FilterPriority, "1")
	s.Require().NoError(err)

	s.Equal([]string{"High", "Low"}, view.Staged.Priorities)
}

func (s *BoardServiceTestSuite) TestToggleFilter_Errors() {
	_, err := s.svc.ToggleFilter(s.ctx, domain.FilterDepartment, "x")
	s.ErrorIs(err, domain.ErrInvalidKey)

	_, err = s.svc.ToggleFilter(s.ctx, domain.FilterDepartment, "99")
	s.ErrorIs(err, domain.ErrNotFound)

	_, err = s.svc.ToggleFilter(s.ctx, domain.FilterEmployee, "99")
	s.ErrorIs(err, domain.ErrEmployeeNotFound)

	_, err = s.svc.ToggleFilter(s.ctx, domain.FilterPriority, "Urgent")
	s.ErrorIs(err, domain.ErrNotFound)

	_, err = s.svc.ToggleFilter(s.ctx, "colour", "1")
	s.ErrorIs(err, domain.ErrInvalidCategory)
}

func (s *BoardServiceTestSuite) TestRemoveAndClear() {
	_, err := s.svc.ToggleFilter(s.ctx, domain.FilterEmployee, "7")
	s.Require().NoError(err)
	_, err = s.svc.ToggleFilter(s.ctx, domain.FilterPriority, "Low")
	s.Require().NoError(err)
	s.svc.ApplyFilters(s.ctx)

	view, err := s.svc.RemoveFilter(s.ctx, domain.FilterEmployee, "7")
	s.Require().NoError(err)
	s.Empty(view.Applied.Employees)
	s.Equal([]string{"Low"}, view.Applied.Priorities)

	view = s.svc.ClearFilters(s.ctx)
	s.True(view.Applied.IsEmpty())
	s.Empty(view.Chips)
	s.False(view.HasFilters)
}

func (s *BoardServiceTestSuite) TestDiscardFilters() {
	_, err := s.svc.ToggleFilter(s.ctx, domain.FilterDepartment, "2")
	s.Require().NoError(err)

	view := s.svc.DiscardFilters()
	s.Empty(view.Staged.Departments)
}

func (s *BoardServiceTestSuite) TestAppliedFiltersSurviveRestart() {
	_, err := s.svc.ToggleFilter(s.ctx, domain.FilterPriority, "High")
	s.Require().NoError(err)
	s.svc.ApplyFilters(s.ctx)

	restarted := service.NewBoardService(s.api, filter.New(s.ctx, s.state))
	b, err := restarted.Board(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, b.Total)
}
