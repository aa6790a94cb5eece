package session

import (
	"github.com/mcoot/partyarcade/internal/model"
)

// RoundProgress reports what a MarkEnded call changed
type RoundProgress struct {
	Round model.RoundInfo
	// RoundComplete is true only for the call that ended the last open game of the round
	RoundComplete bool
	// SessionFinished is true when that round was the final one in the schedule
	SessionFinished bool
}

// roundKeys returns every game on record for a round: the games started for
// it plus any surviving player mapping that points into it
func roundKeys(s *session, round int) gameSet {
	keys := make(gameSet, len(s.roundGames[round]))
	for k := range s.roundGames[round] {
		keys[k] = struct{}{}
	}
	for _, k := range s.gameIDs {
		if k.Round == round {
			keys[k] = struct{}{}
		}
	}
	return keys
}

// allEnded reports whether every game of a round has been marked ended. A
// round with no games is never considered ended.
func allEnded(s *session, round int) bool {
	keys := roundKeys(s, round)
	if len(keys) == 0 {
		return false
	}
	for k := range keys {
		if _, ok := s.ended[round][k]; !ok {
			return false
		}
	}
	return true
}

// MarkEnded records that a game has finished and unmaps every player still
// pointing at it. Safe to call concurrently for games of the same round.
func (r *Registry) MarkEnded(code model.LobbyCode, key model.GameKey) (RoundProgress, error) {
	s, err := r.acquire(code)
	if err != nil {
		return RoundProgress{}, err
	}
	defer s.mu.Unlock()

	wasEnded := allEnded(s, key.Round)

	if s.ended[key.Round] == nil {
		s.ended[key.Round] = make(gameSet)
	}
	s.ended[key.Round][key] = struct{}{}

	for id, k := range s.gameIDs {
		if k == key {
			delete(s.gameIDs, id)
		}
	}

	progress := RoundProgress{Round: roundInfo(s)}
	if !wasEnded && allEnded(s, key.Round) && key.Round == s.roundIndex-1 {
		progress.RoundComplete = true
		if s.roundIndex >= len(s.schedule) {
			s.finished = true
			progress.SessionFinished = true
		}
	}
	return progress, nil
}

// AllEnded reports whether every game of the current round has ended
func (r *Registry) AllEnded(code model.LobbyCode) bool {
	s, err := r.acquire(code)
	if err != nil {
		return false
	}
	defer s.mu.Unlock()
	if s.roundIndex == 0 {
		return false
	}
	return allEnded(s, s.roundIndex-1)
}

// resetTracking forgets which games of round have ended
func resetTracking(s *session, round int) {
	delete(s.ended, round)
}

// ResetTracking clears the ended set of the current round. It must only be
// called before any game of that round ends, or the round can never complete.
func (r *Registry) ResetTracking(code model.LobbyCode) error {
	s, err := r.acquire(code)
	if err != nil {
		return err
	}
	defer s.mu.Unlock()
	if s.roundIndex > 0 {
		resetTracking(s, s.roundIndex-1)
	}
	return nil
}
