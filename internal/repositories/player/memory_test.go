package player

import (
	"context"
	"sync"
	"testing"

	"github.com/KirkDiggler/mindmeld/internal/models"
	"github.com/stretchr/testify/suite"
)

type MemoryDirectoryTestSuite struct {
	suite.Suite
	directory Directory
	ctx       context.Context
}

func (s *MemoryDirectoryTestSuite) SetupTest() {
	s.directory = NewMemory()
	s.ctx = context.Background()
}

func TestMemoryDirectoryTestSuite(t *testing.T) {
	suite.Run(t, new(MemoryDirectoryTestSuite))
}

func (s *MemoryDirectoryTestSuite) TestGetOrCreateCreatesOnFirstContact() {
	p, err := s.directory.GetOrCreate(s.ctx, &GetOrCreateInput{
		PlayerID:   "player-1",
		PlayerName: "Alice",
	})
	s.Require().NoError(err)
	s.Equal("player-1", p.ID)
	s.Equal("Alice", p.Name)
	s.Empty(p.SessionCode)
}

func (s *MemoryDirectoryTestSuite) TestGetOrCreateReturnsSameRecord() {
	first, err := s.directory.GetOrCreate(s.ctx, &GetOrCreateInput{
		PlayerID:   "player-1",
		PlayerName: "Alice",
	})
	s.Require().NoError(err)

	// The name from the second contact is ignored; the record is stable
	second, err := s.directory.GetOrCreate(s.ctx, &GetOrCreateInput{
		PlayerID:   "player-1",
		PlayerName: "Alicia",
	})
	s.Require().NoError(err)

	s.Same(first, second)
	s.Equal("Alice", second.Name)
}

func (s *MemoryDirectoryTestSuite) TestGetUnknownPlayer() {
	_, err := s.directory.Get(s.ctx, &GetInput{PlayerID: "nobody"})
	s.ErrorIs(err, ErrPlayerNotFound)
}

func (s *MemoryDirectoryTestSuite) TestGetExistingPlayer() {
	created, err := s.directory.GetOrCreate(s.ctx, &GetOrCreateInput{
		PlayerID:   "player-1",
		PlayerName: "Alice",
	})
	s.Require().NoError(err)

	got, err := s.directory.Get(s.ctx, &GetInput{PlayerID: "player-1"})
	s.Require().NoError(err)
	s.Same(created, got)
}

func (s *MemoryDirectoryTestSuite) TestListPlayers() {
	for _, id := range []string{"a", "b", "c"} {
		_, err := s.directory.GetOrCreate(s.ctx, &GetOrCreateInput{PlayerID: id, PlayerName: id})
		s.Require().NoError(err)
	}

	players, err := s.directory.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Len(players, 3)
}

func (s *MemoryDirectoryTestSuite) TestConcurrentGetOrCreateSingleRecord() {
	var wg sync.WaitGroup
	results := make([]*models.Player, 20)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			p, err := s.directory.GetOrCreate(s.ctx, &GetOrCreateInput{
				PlayerID:   "player-1",
				PlayerName: "Alice",
			})
			s.NoError(err)
			results[idx] = p
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		s.Same(results[0], r)
	}

	players, err := s.directory.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Len(players, 1)
}
