package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/collabhub/engine/internal/models"
	"github.com/collabhub/engine/internal/notify"
	appErr "github.com/collabhub/engine/pkg/errors"
)

func newTeamFixture(t *testing.T) (TeamService, *fakeProjectRepo, *fakeRequestRepo, *fakeTeamRepo, *models.Project) {
	t.Helper()
	projects := newFakeProjectRepo()
	requests := newFakeRequestRepo()
	team := newFakeTeamRepo()

	p := &models.Project{
		Title:          "matchmaker",
		Type:           "hackathon",
		Visibility:     "public",
		RequiredSkills: "go,sql",
		OwnerEmail:     "owner@uni.edu",
	}
	require.NoError(t, projects.Create(context.Background(), p))

	return NewTeamService(projects, requests, team), projects, requests, team, p
}

func TestCreateRequestOwnerOnly(t *testing.T) {
	svc, _, _, _, p := newTeamFixture(t)
	ctx := context.Background()

	_, err := svc.CreateRequest(ctx, "stranger@uni.edu", p.ID, "target@uni.edu")
	require.True(t, appErr.IsCode(err, appErr.CodeForbidden))

	req, err := svc.CreateRequest(ctx, "owner@uni.edu", p.ID, "target@uni.edu")
	require.NoError(t, err)
	require.Equal(t, models.RequestPending, req.Status)
	require.Equal(t, "owner@uni.edu", req.RequesterEmail)
	require.Equal(t, p.ID, req.ProjectID)
}

func TestCreateRequestValidation(t *testing.T) {
	svc, _, _, team, p := newTeamFixture(t)
	ctx := context.Background()

	_, err := svc.CreateRequest(ctx, "owner@uni.edu", uuid.New(), "target@uni.edu")
	require.True(t, appErr.IsCode(err, appErr.CodeNotFound))

	_, err = svc.CreateRequest(ctx, "owner@uni.edu", p.ID, "")
	require.True(t, appErr.IsCode(err, appErr.CodeInvalid))

	_, aerr := team.AddIfAbsent(ctx, p.ID, "already@uni.edu")
	require.NoError(t, aerr)
	_, err = svc.CreateRequest(ctx, "owner@uni.edu", p.ID, "already@uni.edu")
	require.True(t, appErr.IsCode(err, appErr.CodeInvalid))
}

func TestAcceptCreatesMembership(t *testing.T) {
	svc, _, _, _, p := newTeamFixture(t)
	ctx := context.Background()

	req, err := svc.CreateRequest(ctx, "owner@uni.edu", p.ID, "target@uni.edu")
	require.NoError(t, err)

	// wrong actor
	_, err = svc.Accept(ctx, "other@uni.edu", req.ID)
	require.True(t, appErr.IsCode(err, appErr.CodeForbidden))

	member, err := svc.Accept(ctx, "target@uni.edu", req.ID)
	require.NoError(t, err)
	require.Equal(t, p.ID, member.ProjectID)
	require.Equal(t, "target@uni.edu", member.MemberEmail)

	roster, err := svc.ListTeam(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, roster, 1)
}

func TestAcceptReplayFailsInvalidState(t *testing.T) {
	svc, _, _, team, p := newTeamFixture(t)
	ctx := context.Background()

	req, err := svc.CreateRequest(ctx, "owner@uni.edu", p.ID, "target@uni.edu")
	require.NoError(t, err)

	_, err = svc.Accept(ctx, "target@uni.edu", req.ID)
	require.NoError(t, err)

	_, err = svc.Accept(ctx, "target@uni.edu", req.ID)
	require.True(t, appErr.IsCode(err, appErr.CodeInvalidState))
	require.Equal(t, 1, team.count())
}

func TestConcurrentAcceptExactlyOneWins(t *testing.T) {
	svc, _, _, team, p := newTeamFixture(t)
	ctx := context.Background()

	req, err := svc.CreateRequest(ctx, "owner@uni.edu", p.ID, "target@uni.edu")
	require.NoError(t, err)

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Accept(ctx, "target@uni.edu", req.ID)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			require.True(t, appErr.IsCode(err, appErr.CodeInvalidState), "unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, wins)
	require.Equal(t, 1, team.count())
}

func TestRejectLeavesNoMembership(t *testing.T) {
	svc, _, requests, team, p := newTeamFixture(t)
	ctx := context.Background()

	req, err := svc.CreateRequest(ctx, "owner@uni.edu", p.ID, "target@uni.edu")
	require.NoError(t, err)

	_, err = svc.Reject(ctx, "other@uni.edu", req.ID)
	require.True(t, appErr.IsCode(err, appErr.CodeForbidden))

	rejected, err := svc.Reject(ctx, "target@uni.edu", req.ID)
	require.NoError(t, err)
	require.Equal(t, models.RequestRejected, rejected.Status)
	// the response reflects the committed transition, not the pre-read row
	require.True(t, rejected.UpdatedAt.After(req.UpdatedAt))
	require.Equal(t, 0, team.count())

	var stored models.TeamRequest
	require.NoError(t, requests.GetByID(ctx, req.ID, &stored))
	require.Equal(t, models.RequestRejected, stored.Status)

	_, err = svc.Accept(ctx, "target@uni.edu", req.ID)
	require.True(t, appErr.IsCode(err, appErr.CodeInvalidState))
}

func TestListIncomingOrderedAnyStatus(t *testing.T) {
	svc, projects, _, _, p := newTeamFixture(t)
	ctx := context.Background()

	p2 := &models.Project{Title: "second", Type: "research", Visibility: "public", RequiredSkills: "ml", OwnerEmail: "owner@uni.edu"}
	require.NoError(t, projects.Create(ctx, p2))

	r1, err := svc.CreateRequest(ctx, "owner@uni.edu", p.ID, "target@uni.edu")
	require.NoError(t, err)
	r2, err := svc.CreateRequest(ctx, "owner@uni.edu", p2.ID, "target@uni.edu")
	require.NoError(t, err)

	_, err = svc.Reject(ctx, "target@uni.edu", r1.ID)
	require.NoError(t, err)

	incoming, err := svc.ListIncoming(ctx, "target@uni.edu")
	require.NoError(t, err)
	require.Len(t, incoming, 2)
	require.Equal(t, r1.ID, incoming[0].ID)
	require.Equal(t, r2.ID, incoming[1].ID)
	require.Equal(t, models.RequestRejected, incoming[0].Status)
	require.Equal(t, models.RequestPending, incoming[1].Status)
}

func TestEndToEndOwnerInviteAcceptVisible(t *testing.T) {
	projects := newFakeProjectRepo()
	requests := newFakeRequestRepo()
	team := newFakeTeamRepo()
	teamSvc := NewTeamService(projects, requests, team)
	projSvc := NewProjectService(projects, team, notify.Noop{})
	ctx := context.Background()

	p, err := projSvc.CreateProject(ctx, "a@uni.edu", &CreateProjectInput{
		Title:          "search engine",
		Type:           "startup",
		Visibility:     "public",
		RequiredSkills: "go,sql",
	})
	require.NoError(t, err)

	req, err := teamSvc.CreateRequest(ctx, "a@uni.edu", p.ID, "b@uni.edu")
	require.NoError(t, err)
	require.Equal(t, models.RequestPending, req.Status)

	_, err = teamSvc.Accept(ctx, "b@uni.edu", req.ID)
	require.NoError(t, err)

	roster, err := teamSvc.ListTeam(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, roster, 1)
	require.Equal(t, "b@uni.edu", roster[0].MemberEmail)

	visible, err := projSvc.ListVisible(ctx, "b@uni.edu")
	require.NoError(t, err)
	require.Len(t, visible, 1)
	require.Equal(t, p.ID, visible[0].ID)
}
