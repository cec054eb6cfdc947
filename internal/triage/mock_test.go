package triage

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sabaki-dev/sabaki/internal/github"
)

// MockTrackerClient はgithub.TrackerClientのモック実装
type MockTrackerClient struct {
	mock.Mock
}

func (m *MockTrackerClient) GetIssue(ctx context.Context, number int) (*github.Issue, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*github.Issue), args.Error(1)
}

func (m *MockTrackerClient) ListOpenIssues(ctx context.Context) ([]*github.Issue, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*github.Issue), args.Error(1)
}

func (m *MockTrackerClient) ListClosedIssues(ctx context.Context) ([]*github.Issue, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*github.Issue), args.Error(1)
}

func (m *MockTrackerClient) ListRepoLabels(ctx context.Context) ([]github.Label, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]github.Label), args.Error(1)
}

func (m *MockTrackerClient) ListTimelineEvents(ctx context.Context, number, limit int) ([]*github.TimelineEvent, error) {
	args := m.Called(ctx, number, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*github.TimelineEvent), args.Error(1)
}

func (m *MockTrackerClient) AddLabels(ctx context.Context, number int, labels []string) error {
	args := m.Called(ctx, number, labels)
	return args.Error(0)
}

func (m *MockTrackerClient) RemoveLabel(ctx context.Context, number int, label string) error {
	args := m.Called(ctx, number, label)
	return args.Error(0)
}

func (m *MockTrackerClient) CreateComment(ctx context.Context, number int, body string) error {
	args := m.Called(ctx, number, body)
	return args.Error(0)
}

func (m *MockTrackerClient) UpdateTitle(ctx context.Context, number int, title string) error {
	args := m.Called(ctx, number, title)
	return args.Error(0)
}

func (m *MockTrackerClient) UpdateIssueState(ctx context.Context, number int, state, reason string) error {
	args := m.Called(ctx, number, state, reason)
	return args.Error(0)
}

var _ github.TrackerClient = (*MockTrackerClient)(nil)
