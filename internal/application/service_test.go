package application_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/taskpilot/taskpilot/internal/application"
	"github.com/taskpilot/taskpilot/internal/domain"
	"github.com/taskpilot/taskpilot/internal/ports"
)

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	user, err := f.service.Register(ctx, application.RegisterRequest{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Password: "SecurePass123",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.UserID == uuid.Nil {
		t.Fatalf("register returned empty user id")
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.Role != domain.RoleNormal {
		t.Fatalf("expected default role, got %q", user.Role)
	}

	res, err := f.service.Login(ctx, application.LoginRequest{
		Email:    "alice@example.com",
		Password: "SecurePass123",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("login token should not be empty")
	}
	if res.User.UserID != user.UserID {
		t.Fatalf("login returned wrong user")
	}
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.service.Register(ctx, application.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "SecurePass123",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	_, err := f.service.Register(ctx, application.RegisterRequest{
		Name: "Other", Email: "ALICE@example.com", Password: "SecurePass456",
	})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestVerifyCredentialsFailureShape(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.service.Register(ctx, application.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "SecurePass123",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// An account without a local password, as created by federated sign-in.
	f.users.put(domain.User{
		UserID: uuid.New(),
		Name:   "Fed",
		Email:  "fed@example.com",
		Role:   domain.RoleNormal,
	})

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@example.com", "SecurePass123"},
		{"wrong password", "alice@example.com", "WrongPass999"},
		{"no local password", "fed@example.com", "SecurePass123"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := f.hasher.compares()
			_, err := f.service.VerifyCredentials(ctx, tc.email, tc.password)
			if !errors.Is(err, domain.ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
			if got := f.hasher.compares() - before; got != 1 {
				t.Fatalf("expected exactly one hash comparison, got %d", got)
			}
		})
	}
}

func TestGoogleLoginCreatesThenOnlyUpdatesTokens(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	f.google.profiles["code-1"] = ports.FederatedProfile{
		Email:        "bob@example.com",
		Name:         "Bob",
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
	}

	start, err := f.service.GoogleLoginURL(ctx, "")
	if err != nil {
		t.Fatalf("google login url failed: %v", err)
	}
	if !strings.Contains(start.AuthorizeURL, "state="+start.State) {
		t.Fatalf("expected state in authorize url, got %s", start.AuthorizeURL)
	}

	res, err := f.service.CompleteGoogleLogin(ctx, "code-1", start.State)
	if err != nil {
		t.Fatalf("google callback failed: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected session token")
	}
	created := f.users.byEmailCopy("bob@example.com")
	if created.Role != domain.RoleNormal {
		t.Fatalf("expected default role on first federated sign-in, got %q", created.Role)
	}
	if created.PasswordHash != "" {
		t.Fatalf("federated account must not carry a local password")
	}
	if created.GoogleAccessToken != "access-1" || created.GoogleRefreshToken != "refresh-1" {
		t.Fatalf("token pair not stored: %+v", created)
	}

	// Promote the user out-of-band; a repeat sign-in must not touch the role.
	f.users.setRole(created.UserID, domain.RoleAdmin)

	f.google.profiles["code-2"] = ports.FederatedProfile{
		Email:        "bob@example.com",
		Name:         "Robert Renamed",
		AccessToken:  "access-2",
		RefreshToken: "refresh-2",
	}
	start2, err := f.service.GoogleLoginURL(ctx, "")
	if err != nil {
		t.Fatalf("google login url failed: %v", err)
	}
	res2, err := f.service.CompleteGoogleLogin(ctx, "code-2", start2.State)
	if err != nil {
		t.Fatalf("second google callback failed: %v", err)
	}
	if res2.User.UserID != created.UserID {
		t.Fatalf("repeat sign-in resolved to a different identity")
	}

	after := f.users.byEmailCopy("bob@example.com")
	if after.Role != domain.RoleAdmin {
		t.Fatalf("repeat sign-in must not change role, got %q", after.Role)
	}
	if after.Name != "Bob" {
		t.Fatalf("repeat sign-in must not change name, got %q", after.Name)
	}
	if after.GoogleAccessToken != "access-2" || after.GoogleRefreshToken != "refresh-2" {
		t.Fatalf("token pair not updated: %+v", after)
	}
}

func TestGoogleCallbackRejections(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	// Unknown state.
	if _, err := f.service.CompleteGoogleLogin(ctx, "code-1", "no-such-state"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for unknown state, got %v", err)
	}

	// Failed exchange consumes the state and creates nothing.
	start, err := f.service.GoogleLoginURL(ctx, "")
	if err != nil {
		t.Fatalf("google login url failed: %v", err)
	}
	if _, err := f.service.CompleteGoogleLogin(ctx, "bad-code", start.State); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for failed exchange, got %v", err)
	}
	if f.users.count() != 0 {
		t.Fatalf("failed exchange must not create users")
	}

	// State replay.
	f.google.profiles["code-1"] = ports.FederatedProfile{
		Email: "bob@example.com", AccessToken: "a", RefreshToken: "r",
	}
	start2, err := f.service.GoogleLoginURL(ctx, "")
	if err != nil {
		t.Fatalf("google login url failed: %v", err)
	}
	if _, err := f.service.CompleteGoogleLogin(ctx, "code-1", start2.State); err != nil {
		t.Fatalf("google callback failed: %v", err)
	}
	if _, err := f.service.CompleteGoogleLogin(ctx, "code-1", start2.State); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized on state replay, got %v", err)
	}
}

func TestGoogleNotConfigured(t *testing.T) {
	t.Parallel()

	f := newFixtureWithoutGoogle(t)
	ctx := context.Background()

	if _, err := f.service.GoogleLoginURL(ctx, ""); !errors.Is(err, domain.ErrGoogleNotConfigured) {
		t.Fatalf("expected ErrGoogleNotConfigured, got %v", err)
	}
	if _, err := f.service.CompleteGoogleLogin(ctx, "code", "state"); !errors.Is(err, domain.ErrGoogleNotConfigured) {
		t.Fatalf("expected ErrGoogleNotConfigured, got %v", err)
	}
	if _, err := f.service.ValidAccessToken(ctx, uuid.New()); !errors.Is(err, domain.ErrGoogleNotConfigured) {
		t.Fatalf("expected ErrGoogleNotConfigured, got %v", err)
	}
}

func TestAuthorizeOwnershipRule(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	owner := uuid.New()
	other := uuid.New()

	cases := []struct {
		name    string
		ownerID uuid.UUID
		claims  ports.AuthClaims
		want    bool
	}{
		{"owner on own resource", owner, ports.AuthClaims{UserID: owner, Role: domain.RoleNormal}, true},
		{"stranger on foreign resource", owner, ports.AuthClaims{UserID: other, Role: domain.RoleNormal}, false},
		{"admin on foreign resource", owner, ports.AuthClaims{UserID: other, Role: domain.RoleAdmin}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.service.Authorize(tc.ownerID, tc.claims); got != tc.want {
				t.Fatalf("Authorize = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTaskAccessDenialShapes(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	ownerClaims := ports.AuthClaims{UserID: uuid.New(), Role: domain.RoleNormal}
	strangerClaims := ports.AuthClaims{UserID: uuid.New(), Role: domain.RoleNormal}
	adminClaims := ports.AuthClaims{UserID: uuid.New(), Role: domain.RoleAdmin}

	task, err := f.service.CreateTask(ctx, application.CreateTaskRequest{Title: "write report"}, ownerClaims)
	if err != nil {
		t.Fatalf("create task failed: %v", err)
	}

	// A foreign task is indistinguishable from a missing one.
	if _, err := f.service.GetTask(ctx, task.TaskID, strangerClaims); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign task, got %v", err)
	}
	if _, err := f.service.GetTask(ctx, uuid.New(), ownerClaims); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing task, got %v", err)
	}
	if _, err := f.service.GetTask(ctx, task.TaskID, adminClaims); err != nil {
		t.Fatalf("admin read failed: %v", err)
	}

	// Listing denial is an explicit Forbidden.
	if _, err := f.service.ListUsers(ctx, strangerClaims); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin listing, got %v", err)
	}

	// Non-admin listings are silently scoped to the caller.
	listing, err := f.service.ListTasks(ctx, 1, 10, strangerClaims)
	if err != nil {
		t.Fatalf("list tasks failed: %v", err)
	}
	if len(listing.Tasks) != 0 {
		t.Fatalf("stranger listing must be empty, got %d tasks", len(listing.Tasks))
	}

	adminListing, err := f.service.ListTasks(ctx, 1, 10, adminClaims)
	if err != nil {
		t.Fatalf("admin list tasks failed: %v", err)
	}
	if len(adminListing.Tasks) != 1 {
		t.Fatalf("admin listing should see every task, got %d", len(adminListing.Tasks))
	}
}

func TestAnalyzeTask(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	ownerClaims := ports.AuthClaims{UserID: uuid.New(), Role: domain.RoleNormal}
	strangerClaims := ports.AuthClaims{UserID: uuid.New(), Role: domain.RoleNormal}

	cases := []struct {
		name        string
		description string
		wantEffort  string
	}{
		{"short description grades low", "quick fix", "Low"},
		{"mid description grades medium", strings.Repeat("m", 150), "Medium"},
		{"long description grades high", strings.Repeat("h", 250), "High"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			task, err := f.service.CreateTask(ctx, application.CreateTaskRequest{
				Title:       "graded task",
				Description: tc.description,
			}, ownerClaims)
			if err != nil {
				t.Fatalf("create task failed: %v", err)
			}

			insights, err := f.service.AnalyzeTask(ctx, task.TaskID, ownerClaims)
			if err != nil {
				t.Fatalf("analyze task failed: %v", err)
			}
			if insights.TaskID != task.TaskID {
				t.Fatalf("insights for wrong task: %s", insights.TaskID)
			}
			if insights.EstimatedEffort != tc.wantEffort {
				t.Fatalf("EstimatedEffort = %q, want %q", insights.EstimatedEffort, tc.wantEffort)
			}
			if insights.CompletionPrediction == "" {
				t.Fatalf("expected a completion prediction")
			}
			if len(insights.SimilarTaskPatterns) == 0 {
				t.Fatalf("expected similar-task patterns")
			}
			if insights.AnalyzedAt.IsZero() {
				t.Fatalf("expected analysis timestamp")
			}
		})
	}

	// Analysis follows the task read guard: a foreign task looks missing.
	task, err := f.service.CreateTask(ctx, application.CreateTaskRequest{Title: "private"}, ownerClaims)
	if err != nil {
		t.Fatalf("create task failed: %v", err)
	}
	if _, err := f.service.AnalyzeTask(ctx, task.TaskID, strangerClaims); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign task, got %v", err)
	}
}

func TestDelegatedTokenSourceUnlinked(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	user := domain.User{UserID: uuid.New(), Email: "plain@example.com", Role: domain.RoleNormal}
	f.users.put(user)

	_, err := f.service.ValidAccessToken(ctx, user.UserID)
	if !errors.Is(err, domain.ErrCalendarNotLinked) {
		t.Fatalf("expected ErrCalendarNotLinked, got %v", err)
	}
	if f.google.sourceCalls() != 0 {
		t.Fatalf("provider must not be contacted for unlinked users")
	}
}

func TestTokenRotationPersistsAndRetainsRefreshToken(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	user := domain.User{
		UserID:             uuid.New(),
		Email:              "linked@example.com",
		Role:               domain.RoleNormal,
		GoogleAccessToken:  "access-1",
		GoogleRefreshToken: "refresh-1",
	}
	f.users.put(user)
	f.google.queueTokens(
		&oauth2.Token{AccessToken: "access-2", RefreshToken: "refresh-2"},
		&oauth2.Token{AccessToken: "access-3"},
	)

	got, err := f.service.ValidAccessToken(ctx, user.UserID)
	if err != nil {
		t.Fatalf("valid access token failed: %v", err)
	}
	if got != "access-2" {
		t.Fatalf("expected rotated access token, got %q", got)
	}
	stored := f.users.byIDCopy(user.UserID)
	if stored.GoogleAccessToken != "access-2" || stored.GoogleRefreshToken != "refresh-2" {
		t.Fatalf("rotated pair not persisted: %+v", stored)
	}

	// The next rotation omits the refresh token; the stored one must survive.
	got, err = f.service.ValidAccessToken(ctx, user.UserID)
	if err != nil {
		t.Fatalf("valid access token failed: %v", err)
	}
	if got != "access-3" {
		t.Fatalf("expected second rotated access token, got %q", got)
	}
	stored = f.users.byIDCopy(user.UserID)
	if stored.GoogleAccessToken != "access-3" {
		t.Fatalf("second rotation not persisted: %+v", stored)
	}
	if stored.GoogleRefreshToken != "refresh-2" {
		t.Fatalf("refresh token must be retained when rotation omits one, got %q", stored.GoogleRefreshToken)
	}
}

func TestTokenRotationPersistenceFailureSwallowed(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	user := domain.User{
		UserID:             uuid.New(),
		Email:              "linked@example.com",
		Role:               domain.RoleNormal,
		GoogleAccessToken:  "access-1",
		GoogleRefreshToken: "refresh-1",
	}
	f.users.put(user)
	f.users.failTokenUpdates(true)
	f.google.queueTokens(&oauth2.Token{AccessToken: "access-2", RefreshToken: "refresh-2"})

	got, err := f.service.ValidAccessToken(ctx, user.UserID)
	if err != nil {
		t.Fatalf("in-flight call must not fail on persistence error: %v", err)
	}
	if got != "access-2" {
		t.Fatalf("expected rotated access token, got %q", got)
	}
	stored := f.users.byIDCopy(user.UserID)
	if stored.GoogleAccessToken != "access-1" {
		t.Fatalf("store must be untouched after failed persist, got %+v", stored)
	}
}

func TestScheduleTask(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	user := domain.User{
		UserID:             uuid.New(),
		Email:              "linked@example.com",
		Role:               domain.RoleNormal,
		GoogleAccessToken:  "access-1",
		GoogleRefreshToken: "refresh-1",
	}
	f.users.put(user)
	claims := ports.AuthClaims{UserID: user.UserID, Role: user.Role}

	noDue, err := f.service.CreateTask(ctx, application.CreateTaskRequest{Title: "no due date"}, claims)
	if err != nil {
		t.Fatalf("create task failed: %v", err)
	}
	if _, err := f.service.ScheduleTask(ctx, noDue.TaskID, claims); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for task without due date, got %v", err)
	}

	due := time.Now().UTC().Add(48 * time.Hour)
	task, err := f.service.CreateTask(ctx, application.CreateTaskRequest{Title: "write report", DueDate: &due}, claims)
	if err != nil {
		t.Fatalf("create task failed: %v", err)
	}
	scheduled, err := f.service.ScheduleTask(ctx, task.TaskID, claims)
	if err != nil {
		t.Fatalf("schedule task failed: %v", err)
	}
	if scheduled.CalendarEventID == "" {
		t.Fatalf("expected calendar event id recorded on task")
	}
}

func TestScheduleAllTasksContinuesPastFailures(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	user := domain.User{
		UserID:             uuid.New(),
		Email:              "linked@example.com",
		Role:               domain.RoleNormal,
		GoogleAccessToken:  "access-1",
		GoogleRefreshToken: "refresh-1",
	}
	f.users.put(user)
	claims := ports.AuthClaims{UserID: user.UserID, Role: user.Role}

	due := time.Now().UTC().Add(24 * time.Hour)
	if _, err := f.service.CreateTask(ctx, application.CreateTaskRequest{Title: "good", DueDate: &due}, claims); err != nil {
		t.Fatalf("create task failed: %v", err)
	}
	if _, err := f.service.CreateTask(ctx, application.CreateTaskRequest{Title: "doomed", DueDate: &due}, claims); err != nil {
		t.Fatalf("create task failed: %v", err)
	}
	f.calendar.failSummaries["doomed"] = true

	out, err := f.service.ScheduleAllTasks(ctx, claims)
	if err != nil {
		t.Fatalf("schedule all failed: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected both tasks in result, got %d", len(out))
	}
	var scheduled, unscheduled int
	for _, task := range out {
		if task.CalendarEventID != "" {
			scheduled++
		} else {
			unscheduled++
		}
	}
	if scheduled != 1 || unscheduled != 1 {
		t.Fatalf("expected one scheduled and one untouched task, got %d/%d", scheduled, unscheduled)
	}
}

func TestImportCalendarEvents(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	user := domain.User{
		UserID:             uuid.New(),
		Email:              "linked@example.com",
		Role:               domain.RoleNormal,
		GoogleAccessToken:  "access-1",
		GoogleRefreshToken: "refresh-1",
	}
	f.users.put(user)
	claims := ports.AuthClaims{UserID: user.UserID, Role: user.Role}

	start := time.Now().UTC().Add(-time.Hour)
	f.calendar.events = []ports.CalendarEvent{
		{EventID: "ev-1", Summary: "Standup", Start: start, End: start.Add(30 * time.Minute)},
		{EventID: "ev-2", Summary: "", Start: start.Add(time.Hour)},
		{EventID: "ev-3", Summary: "All day"}, // no start time, skipped
	}

	imported, err := f.service.ImportCalendarEvents(ctx, claims)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if len(imported) != 2 {
		t.Fatalf("expected 2 imported tasks, got %d", len(imported))
	}
	if imported[0].Title != "Standup" || imported[0].CalendarEventID != "ev-1" {
		t.Fatalf("unexpected first import: %+v", imported[0])
	}
	if imported[1].Title != "Untitled Event" {
		t.Fatalf("expected title fallback, got %q", imported[1].Title)
	}
}

type fixture struct {
	service  *application.Service
	users    *fakeUsers
	tasks    *fakeTasks
	states   *fakeStates
	google   *fakeGoogle
	calendar *fakeCalendar
	hasher   *fakeHasher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := baseFixture()
	f.service = application.NewService(application.Dependencies{
		Config:   testConfig(),
		Users:    f.users,
		Tasks:    f.tasks,
		States:   f.states,
		Google:   f.google,
		Calendar: f.calendar,
		Hasher:   f.hasher,
		Signer:   &fakeSigner{},
	})
	return f
}

func newFixtureWithoutGoogle(t *testing.T) *fixture {
	t.Helper()
	f := baseFixture()
	f.service = application.NewService(application.Dependencies{
		Config:   testConfig(),
		Users:    f.users,
		Tasks:    f.tasks,
		States:   f.states,
		Calendar: f.calendar,
		Hasher:   f.hasher,
		Signer:   &fakeSigner{},
	})
	return f
}

func baseFixture() *fixture {
	return &fixture{
		users: &fakeUsers{
			byID: make(map[uuid.UUID]domain.User),
		},
		tasks: &fakeTasks{
			byID: make(map[uuid.UUID]domain.Task),
		},
		states:   &fakeStates{values: make(map[string]ports.OAuthState)},
		google:   &fakeGoogle{profiles: make(map[string]ports.FederatedProfile)},
		calendar: &fakeCalendar{failSummaries: make(map[string]bool)},
		hasher:   &fakeHasher{},
	}
}

func testConfig() application.Config {
	return application.Config{
		DefaultRole:   domain.RoleNormal,
		TokenTTL:      time.Hour,
		OAuthStateTTL: 10 * time.Minute,
	}
}

type fakeUsers struct {
	mu          sync.Mutex
	byID        map[uuid.UUID]domain.User
	failUpdates bool
}

func (f *fakeUsers) put(u domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[u.UserID] = u
}

func (f *fakeUsers) setRole(userID uuid.UUID, role string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.byID[userID]
	u.Role = role
	f.byID[userID] = u
}

func (f *fakeUsers) failTokenUpdates(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failUpdates = fail
}

func (f *fakeUsers) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

func (f *fakeUsers) byEmailCopy(email string) domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			return u
		}
	}
	return domain.User{}
}

func (f *fakeUsers) byIDCopy(userID uuid.UUID) domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[userID]
}

func (f *fakeUsers) Create(_ context.Context, params ports.CreateUserParams) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == params.Email {
			return domain.User{}, domain.ErrEmailTaken
		}
	}
	u := domain.User{
		UserID:             uuid.New(),
		Name:               params.Name,
		Email:              params.Email,
		PasswordHash:       params.PasswordHash,
		Role:               params.Role,
		GoogleAccessToken:  params.GoogleAccessToken,
		GoogleRefreshToken: params.GoogleRefreshToken,
		CreatedAt:          params.CreatedAtUTC,
		UpdatedAt:          params.CreatedAtUTC,
	}
	f.byID[u.UserID] = u
	return u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, userID uuid.UUID) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) List(context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUsers) UpdateGoogleTokens(_ context.Context, userID uuid.UUID, accessToken, refreshToken string, updatedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdates {
		return errors.New("store unavailable")
	}
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.GoogleAccessToken = accessToken
	if refreshToken != "" {
		u.GoogleRefreshToken = refreshToken
	}
	u.UpdatedAt = updatedAt
	f.byID[userID] = u
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[userID]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, userID)
	return nil
}

type fakeTasks struct {
	mu   sync.Mutex
	byID map[uuid.UUID]domain.Task
}

func (f *fakeTasks) Create(_ context.Context, params ports.CreateTaskParams) (domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task := domain.Task{
		TaskID:          uuid.New(),
		UserID:          params.UserID,
		Title:           params.Title,
		Description:     params.Description,
		Status:          params.Status,
		DueDate:         params.DueDate,
		CalendarEventID: params.CalendarEventID,
		CreatedAt:       params.CreatedAtUTC,
		UpdatedAt:       params.CreatedAtUTC,
	}
	f.byID[task.TaskID] = task
	return task, nil
}

func (f *fakeTasks) GetByID(_ context.Context, taskID uuid.UUID) (domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.byID[taskID]
	if !ok {
		return domain.Task{}, domain.ErrNotFound
	}
	return task, nil
}

func (f *fakeTasks) ListAll(_ context.Context, page, limit int) (ports.TaskPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Task, 0, len(f.byID))
	for _, task := range f.byID {
		out = append(out, task)
	}
	return ports.TaskPage{Tasks: out, Total: int64(len(out)), Page: page, Limit: limit}, nil
}

func (f *fakeTasks) ListByUser(_ context.Context, userID uuid.UUID, page, limit int) (ports.TaskPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Task
	for _, task := range f.byID {
		if task.UserID == userID {
			out = append(out, task)
		}
	}
	return ports.TaskPage{Tasks: out, Total: int64(len(out)), Page: page, Limit: limit}, nil
}

func (f *fakeTasks) Update(_ context.Context, taskID uuid.UUID, update ports.TaskUpdate, updatedAt time.Time) (domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.byID[taskID]
	if !ok {
		return domain.Task{}, domain.ErrNotFound
	}
	if update.Title != nil {
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Status != nil {
		task.Status = *update.Status
	}
	if update.DueDate != nil {
		task.DueDate = update.DueDate
	}
	if update.CalendarEventID != nil {
		task.CalendarEventID = *update.CalendarEventID
	}
	task.UpdatedAt = updatedAt
	f.byID[taskID] = task
	return task, nil
}

func (f *fakeTasks) Delete(_ context.Context, taskID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[taskID]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, taskID)
	return nil
}

type fakeStates struct {
	mu     sync.Mutex
	values map[string]ports.OAuthState
}

func (f *fakeStates) Put(_ context.Context, state string, value ports.OAuthState, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[state] = value
	return nil
}

func (f *fakeStates) Get(_ context.Context, state string) (*ports.OAuthState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[state]
	if !ok {
		return nil, nil
	}
	cp := v
	return &cp, nil
}

func (f *fakeStates) Delete(_ context.Context, state string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.values, state)
	return nil
}

type fakeGoogle struct {
	mu       sync.Mutex
	profiles map[string]ports.FederatedProfile
	queued   []*oauth2.Token
	calls    int
}

func (f *fakeGoogle) AuthCodeURL(state string) string {
	return "https://accounts.google.com/o/oauth2/auth?state=" + state
}

func (f *fakeGoogle) Exchange(_ context.Context, code string) (ports.FederatedProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	profile, ok := f.profiles[code]
	if !ok {
		return ports.FederatedProfile{}, errors.New("invalid_grant")
	}
	return profile, nil
}

func (f *fakeGoogle) queueTokens(tokens ...*oauth2.Token) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queued = append(f.queued, tokens...)
}

func (f *fakeGoogle) sourceCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeGoogle) TokenSource(_ context.Context, accessToken, _ string) oauth2.TokenSource {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return &fakeTokenSource{google: f, current: accessToken}
}

// fakeTokenSource hands out queued rotations one at a time, falling back to
// the last observed token like a cached provider source would.
type fakeTokenSource struct {
	google  *fakeGoogle
	current string
	refresh string
}

func (s *fakeTokenSource) Token() (*oauth2.Token, error) {
	s.google.mu.Lock()
	defer s.google.mu.Unlock()
	if len(s.google.queued) > 0 {
		tok := s.google.queued[0]
		s.google.queued = s.google.queued[1:]
		s.current = tok.AccessToken
		s.refresh = tok.RefreshToken
		return tok, nil
	}
	return &oauth2.Token{AccessToken: s.current, RefreshToken: s.refresh}, nil
}

type fakeCalendar struct {
	mu            sync.Mutex
	failSummaries map[string]bool
	events        []ports.CalendarEvent
	inserted      int
}

func (f *fakeCalendar) InsertEvent(_ context.Context, _ oauth2.TokenSource, event ports.CalendarEvent) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSummaries[event.Summary] {
		return "", errors.New("calendar insert rejected")
	}
	f.inserted++
	return fmt.Sprintf("event-%d", f.inserted), nil
}

func (f *fakeCalendar) ListRecentEvents(_ context.Context, _ oauth2.TokenSource, _, _ time.Time, _ int64) ([]ports.CalendarEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.events, nil
}

type fakeHasher struct {
	mu       sync.Mutex
	compared int
}

func (f *fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (f *fakeHasher) Compare(hash, password string) error {
	f.mu.Lock()
	f.compared++
	f.mu.Unlock()
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

func (f *fakeHasher) compares() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.compared
}

// fakeSigner encodes claims into an inspectable opaque string.
type fakeSigner struct{}

func (fakeSigner) Sign(claims ports.AuthClaims) (string, error) {
	return "token:" + claims.UserID.String() + ":" + claims.Role, nil
}

func (fakeSigner) ParseAndValidate(token string) (ports.AuthClaims, error) {
	parts := strings.Split(token, ":")
	if len(parts) != 3 || parts[0] != "token" {
		return ports.AuthClaims{}, errors.New("malformed token")
	}
	userID, err := uuid.Parse(parts[1])
	if err != nil {
		return ports.AuthClaims{}, err
	}
	return ports.AuthClaims{UserID: userID, Role: parts[2]}, nil
}
