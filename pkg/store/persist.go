package store

import (
	"encoding/json"
	"fmt"

	"github.com/matt-steen/myday/pkg/model"
	"github.com/rs/zerolog/log"
)

// Key is the storage key of the saved state.
const Key = "todo-app:v1"

// Encode serializes the state into the saved record format: {"lists": [...], "tasks": [...]}.
func Encode(state model.State) ([]byte, error) {
	if state.Lists == nil {
		state.Lists = []model.List{}
	}

	if state.Tasks == nil {
		state.Tasks = []model.Task{}
	}

	value, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("error encoding state: %w", err)
	}

	return value, nil
}

// Decode parses a saved record.
func Decode(value []byte) (model.State, error) {
	var state model.State

	if err := json.Unmarshal(value, &state); err != nil {
		return model.State{}, fmt.Errorf("error decoding state: %w", err)
	}

	if state.Lists == nil {
		state.Lists = []model.List{}
	}

	if state.Tasks == nil {
		state.Tasks = []model.Task{}
	}

	return state, nil
}

// load reads the saved state, falling back to the seed data when there is none or it can't
// be read.
func (s *Store) load() model.State {
	if s.persister == nil {
		return seedState(s.clock())
	}

	value, ok, err := s.persister.Get(s.ctx, Key)
	if err != nil {
		log.Warn().Err(err).Msg("couldn't read saved state; starting from seed data")

		return seedState(s.clock())
	}

	if !ok {
		log.Info().Msg("no saved state; starting from seed data")

		return seedState(s.clock())
	}

	state, err := Decode(value)
	if err != nil {
		log.Warn().Err(err).Msg("saved state is malformed; dropping it and starting from seed data")

		if err := s.persister.Delete(s.ctx, Key); err != nil {
			log.Warn().Err(err).Msg("couldn't drop malformed saved state")
		}

		return seedState(s.clock())
	}

	state = restoreDefaultList(state.Clone())

	log.Info().Int("lists", len(state.Lists)).Int("tasks", len(state.Tasks)).Msg("loaded saved state")

	return state
}

// save writes the full state under Key. Failures are logged and otherwise ignored: the
// in-memory change stands even if it won't survive a restart. Callers hold s.mu.
func (s *Store) save() {
	if s.persister == nil {
		return
	}

	value, err := Encode(s.state())
	if err != nil {
		log.Warn().Err(err).Msg("couldn't encode state; change is not saved")

		return
	}

	if err := s.persister.Put(s.ctx, Key, value); err != nil {
		log.Warn().Err(err).Msg("couldn't save state; change is not saved")
	}
}

// restoreDefaultList adds the default list back to a saved state that lost it, so tasks created
// without a list always have somewhere to go.
func restoreDefaultList(state model.State) model.State {
	if _, ok := state.FindList(model.DefaultListID); ok {
		return state
	}

	log.Warn().Msg("saved state has no default list; restoring it")

	state.Lists = append(state.Lists, model.List{
		ID:    model.DefaultListID,
		Name:  defaultListName,
		Color: defaultListColor,
		Order: len(state.Lists),
	})

	return state
}
