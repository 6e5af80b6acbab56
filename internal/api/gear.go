package api

import (
	"net/http"

	"github.com/meur/bistracker/internal/models"
	"github.com/meur/bistracker/internal/priority"
)

// TierInfo is a tier with its upgrade threshold
type TierInfo struct {
	models.TierConfig
	MinKeystone *int `json:"min_keystone"` // nil once no upgrade exists
}

// handleGetTiers returns every tier, lowest first
func (s *Server) handleGetTiers(w http.ResponseWriter, r *http.Request) {
	configs := models.TierConfigs()
	tiers := make([]TierInfo, 0, len(configs))
	for _, c := range configs {
		info := TierInfo{TierConfig: c}
		if level, ok := priority.MinKeystone(c.Tier); ok {
			info.MinKeystone = &level
		}
		tiers = append(tiers, info)
	}
	respondJSON(w, http.StatusOK, tiers)
}

// handleGetSlots returns the slot catalog
func (s *Server) handleGetSlots(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.SlotCatalog())
}

// handleGetGear returns all slot records
func (s *Server) handleGetGear(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.tracker.Records())
}

// handleGetSlot returns one slot record
func (s *Server) handleGetSlot(w http.ResponseWriter, r *http.Request) {
	slot, err := slotParam(r)
	if err != nil {
		respondError(w, http.StatusNotFound, "Slot not found")
		return
	}

	record, err := s.tracker.Record(slot)
	if err != nil {
		respondError(w, http.StatusNotFound, "Slot not found")
		return
	}
	respondJSON(w, http.StatusOK, record)
}

// handleUpdateSlot applies a partial update to a slot record
func (s *Server) handleUpdateSlot(w http.ResponseWriter, r *http.Request) {
	slot, err := slotParam(r)
	if err != nil {
		respondError(w, http.StatusNotFound, "Slot not found")
		return
	}

	var update models.SlotRecordUpdate
	if err := decodeJSON(r, &update); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	record, err := s.tracker.UpdateRecord(slot, update)
	if err != nil {
		if isUnknownInput(err) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to update slot")
		return
	}
	respondJSON(w, http.StatusOK, record)
}

// handleGetBis returns the BIS reference table
func (s *Server) handleGetBis(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.tracker.Bis())
}

// handleReplaceBis replaces the BIS reference table
func (s *Server) handleReplaceBis(w http.ResponseWriter, r *http.Request) {
	var table models.BisTable
	if err := decodeJSON(r, &table); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.tracker.ReplaceBis(table)
	respondJSON(w, http.StatusOK, s.tracker.Bis())
}

// handleSetBisEntry sets the BIS entry of one slot
func (s *Server) handleSetBisEntry(w http.ResponseWriter, r *http.Request) {
	slot, err := slotParam(r)
	if err != nil {
		respondError(w, http.StatusNotFound, "Slot not found")
		return
	}

	var entry models.BisEntry
	if err := decodeJSON(r, &entry); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.tracker.SetBisEntry(slot, entry); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

// handleGetPriority returns the priority list for the current state
func (s *Server) handleGetPriority(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.tracker.Priority())
}

// handleSave persists the gear state and the BIS table
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.Save(); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}
