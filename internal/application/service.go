package application

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/taskpilot/taskpilot/internal/ports"
)

type Service struct {
	cfg      Config
	users    ports.UserRepository
	tasks    ports.TaskRepository
	states   ports.OAuthStateStore
	google   ports.GoogleProvider
	calendar ports.CalendarClient
	hasher   ports.PasswordHasher
	signer   ports.TokenSigner
	nowFn    func() time.Time

	// Live delegated token sources, one per linked user. Guarded by srcMu;
	// entries are rebuilt when the stored pair no longer matches the seed.
	srcMu   sync.Mutex
	sources map[uuid.UUID]*delegatedSource
}

type Dependencies struct {
	Config   Config
	Users    ports.UserRepository
	Tasks    ports.TaskRepository
	States   ports.OAuthStateStore
	Google   ports.GoogleProvider
	Calendar ports.CalendarClient
	Hasher   ports.PasswordHasher
	Signer   ports.TokenSigner
}

func NewService(deps Dependencies) *Service {
	return &Service{
		cfg:      deps.Config,
		users:    deps.Users,
		tasks:    deps.Tasks,
		states:   deps.States,
		google:   deps.Google,
		calendar: deps.Calendar,
		hasher:   deps.Hasher,
		signer:   deps.Signer,
		nowFn:    func() time.Time { return time.Now().UTC() },
		sources:  make(map[uuid.UUID]*delegatedSource),
	}
}
