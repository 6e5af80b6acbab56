package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meur/bistracker/internal/models"
	"github.com/meur/bistracker/internal/priority"
	"github.com/meur/bistracker/internal/storage"
)

// handleCreateSnapshot saves the current state as a new snapshot
func (s *Server) handleCreateSnapshot(w http.ResponseWriter, r *http.Request) {
	var req models.SnapshotCreate
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	records, bis := s.tracker.State()
	pending := len(priority.Compute(records, bis))

	snapshot, err := s.store.CreateSnapshot(&req, records, bis, pending)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create snapshot")
		return
	}

	respondJSON(w, http.StatusCreated, snapshot)
}

// handleListSnapshots returns every snapshot summary
func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	snapshots, err := s.store.ListSnapshots()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch snapshots")
		return
	}
	respondJSON(w, http.StatusOK, snapshots)
}

// handleGetSnapshot returns a snapshot by ID
func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := s.loadSnapshot(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}

// handleUpdateSnapshot renames a snapshot or changes its note
func (s *Server) handleUpdateSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var update models.SnapshotUpdate
	if err := decodeJSON(r, &update); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if update.Name != nil && *update.Name == "" {
		respondError(w, http.StatusBadRequest, "name must not be empty")
		return
	}

	if err := s.store.UpdateSnapshot(id, &update); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Snapshot not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to update snapshot")
		return
	}

	// Return updated snapshot
	s.handleGetSnapshot(w, r)
}

// handleDeleteSnapshot deletes a snapshot by ID
func (s *Server) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.store.DeleteSnapshot(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Snapshot not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to delete snapshot")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleGetSnapshotPriority returns the priority list a snapshot had
func (s *Server) handleGetSnapshotPriority(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := s.loadSnapshot(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, priority.Compute(snapshot.Records, snapshot.Bis))
}

// handleRestoreSnapshot makes a snapshot the current state
func (s *Server) handleRestoreSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := s.loadSnapshot(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	s.tracker.Restore(snapshot.Records, snapshot.Bis)
	respondJSON(w, http.StatusOK, s.tracker.Records())
}

// handleGetSnapshotByCode returns a snapshot by share code
func (s *Server) handleGetSnapshotByCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	snapshot, err := s.store.GetSnapshotByShareCode(code)
	if errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Snapshot not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch snapshot")
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}

func (s *Server) loadSnapshot(w http.ResponseWriter, id string) (*models.Snapshot, bool) {
	snapshot, err := s.store.GetSnapshot(id)
	if errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Snapshot not found")
		return nil, false
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch snapshot")
		return nil, false
	}
	return snapshot, true
}
