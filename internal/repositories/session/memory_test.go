package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/KirkDiggler/mindmeld/internal/common/clock"
	clockMocks "github.com/KirkDiggler/mindmeld/internal/common/clock/mocks"
	"github.com/KirkDiggler/mindmeld/internal/common/code"
	codeMocks "github.com/KirkDiggler/mindmeld/internal/common/code/mocks"
	"github.com/KirkDiggler/mindmeld/internal/common/uuid"
	uuidMocks "github.com/KirkDiggler/mindmeld/internal/common/uuid/mocks"
	"github.com/KirkDiggler/mindmeld/internal/models"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type MemoryRegistryTestSuite struct {
	suite.Suite
	mockCtrl  *gomock.Controller
	mockCode  *codeMocks.MockGenerator
	mockUUID  *uuidMocks.MockUUID
	mockClock *clockMocks.MockClock
	registry  Registry
	ctx       context.Context
	testTime  time.Time
	owner     *models.Player
}

func (s *MemoryRegistryTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockCode = codeMocks.NewMockGenerator(s.mockCtrl)
	s.mockUUID = uuidMocks.NewMockUUID(s.mockCtrl)
	s.mockClock = clockMocks.NewMockClock(s.mockCtrl)

	s.ctx = context.Background()
	s.testTime = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()

	s.owner = &models.Player{ID: "owner-1", Name: "Alice"}

	registry, err := NewMemory(&Config{
		CodeGenerator: s.mockCode,
		Clock:         s.mockClock,
		UUIDGenerator: s.mockUUID,
	})
	s.Require().NoError(err)
	s.registry = registry
}

func TestMemoryRegistryTestSuite(t *testing.T) {
	suite.Run(t, new(MemoryRegistryTestSuite))
}

func (s *MemoryRegistryTestSuite) TestNewMemoryValidatesConfig() {
	_, err := NewMemory(nil)
	s.Error(err)

	_, err = NewMemory(&Config{Clock: s.mockClock, UUIDGenerator: s.mockUUID})
	s.Error(err)
}

func (s *MemoryRegistryTestSuite) TestCreateRegistersSession() {
	s.mockCode.EXPECT().Generate().Return("WXYZ")
	s.mockUUID.EXPECT().NewUUID().Return("session-uuid-1")

	sess, err := s.registry.Create(s.ctx, &CreateInput{Owner: s.owner})
	s.Require().NoError(err)

	s.Equal("WXYZ", sess.Code)
	s.Equal("session-uuid-1", sess.ID)
	s.Equal("owner-1", sess.OwnerID)
	s.Require().Len(sess.Members, 1)
	s.Same(s.owner, sess.Members[0])
	s.Equal(1, sess.Round)
	s.False(sess.Started)
	s.Equal(s.testTime, sess.CreatedAt)
	s.Equal(s.testTime, sess.LastActivity)

	// The owner's back-reference is set by creation
	s.Equal("WXYZ", s.owner.SessionCode)

	got, err := s.registry.Get(s.ctx, &GetInput{Code: "WXYZ"})
	s.Require().NoError(err)
	s.Same(sess, got)
}

func (s *MemoryRegistryTestSuite) TestCreateRetriesOnCollision() {
	s.mockCode.EXPECT().Generate().Return("AAAA")
	s.mockUUID.EXPECT().NewUUID().Return("session-uuid-1")

	_, err := s.registry.Create(s.ctx, &CreateInput{Owner: s.owner})
	s.Require().NoError(err)

	// The second create samples the taken code twice before finding a
	// free one
	gomock.InOrder(
		s.mockCode.EXPECT().Generate().Return("AAAA"),
		s.mockCode.EXPECT().Generate().Return("AAAA"),
		s.mockCode.EXPECT().Generate().Return("BBBB"),
	)
	s.mockUUID.EXPECT().NewUUID().Return("session-uuid-2")

	other := &models.Player{ID: "owner-2", Name: "Bob"}
	sess, err := s.registry.Create(s.ctx, &CreateInput{Owner: other})
	s.Require().NoError(err)
	s.Equal("BBBB", sess.Code)
}

func (s *MemoryRegistryTestSuite) TestGetUnknownCode() {
	_, err := s.registry.Get(s.ctx, &GetInput{Code: "NOPE"})
	s.ErrorIs(err, ErrSessionNotFound)
}

func (s *MemoryRegistryTestSuite) TestRemoveFreesCode() {
	s.mockCode.EXPECT().Generate().Return("WXYZ")
	s.mockUUID.EXPECT().NewUUID().Return("session-uuid-1")

	_, err := s.registry.Create(s.ctx, &CreateInput{Owner: s.owner})
	s.Require().NoError(err)

	s.Require().NoError(s.registry.Remove(s.ctx, &RemoveInput{Code: "WXYZ"}))

	_, err = s.registry.Get(s.ctx, &GetInput{Code: "WXYZ"})
	s.ErrorIs(err, ErrSessionNotFound)

	// The code is free for reuse
	s.mockCode.EXPECT().Generate().Return("WXYZ")
	s.mockUUID.EXPECT().NewUUID().Return("session-uuid-2")

	sess, err := s.registry.Create(s.ctx, &CreateInput{Owner: s.owner})
	s.Require().NoError(err)
	s.Equal("WXYZ", sess.Code)
	s.Equal("session-uuid-2", sess.ID)
}

func (s *MemoryRegistryTestSuite) TestRemoveUnknownCode() {
	s.ErrorIs(s.registry.Remove(s.ctx, &RemoveInput{Code: "NOPE"}), ErrSessionNotFound)
}

func (s *MemoryRegistryTestSuite) TestConcurrentCreatesGetDistinctCodes() {
	// Real collaborators here; the point is the registry's own locking
	registry, err := NewMemory(&Config{
		CodeGenerator: code.New(),
		Clock:         clock.New(),
		UUIDGenerator: uuid.New(),
	})
	s.Require().NoError(err)

	const n = 50
	codes := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sess, err := registry.Create(s.ctx, &CreateInput{
				Owner: &models.Player{ID: "p", Name: "p"},
			})
			s.NoError(err)
			codes[idx] = sess.Code
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, c := range codes {
		s.False(seen[c], "code %s assigned twice", c)
		seen[c] = true
	}
}
