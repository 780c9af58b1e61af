package planner

import (
	"context"
	"fmt"

	"outfit-planner/internal/backend"
	"outfit-planner/internal/outfit"
)

// SaveDate promotes a session entry to a persisted plan: create (first
// save only), then update with the final outfit. Only on confirmed
// success does the entry move from temp to saved; any failure leaves both
// maps exactly as they were so the user can retry.
func (c *Controller) SaveDate(ctx context.Context, dateStr string) (SaveOutcome, error) {
	p, ok := c.tempPlans[dateStr]
	if !ok {
		return SaveCompleted, fmt.Errorf("nothing to save for %s", dateStr)
	}
	if !p.Ready() {
		return SaveCompleted, fmt.Errorf("no valid outfit to save for %s", dateStr)
	}

	id := p.ID
	if id == 0 {
		created, err := c.api.CreatePlan(ctx, backend.CreatePlanRequest{
			Start:       dateStr,
			End:         dateStr,
			Location:    p.Location,
			Lat:         p.Lat,
			Lon:         p.Lon,
			Occasion:    p.Occasion,
			Weather:     p.Weather,
			Temp:        p.Temp,
			Description: p.Description,
		})
		if err != nil {
			return SaveCompleted, fmt.Errorf("failed to save plan: %w", err)
		}
		id = created[0].ID
		// The id is assigned exactly once; a retry after a failed update
		// reuses it instead of creating a duplicate row.
		p.ID = id
	}

	if err := c.api.UpdatePlan(ctx, id, p.TempOutfit); err != nil {
		return SaveCompleted, fmt.Errorf("failed to save outfit: %w", err)
	}

	// Confirmed: promote temp -> saved in one step.
	saved := *p
	saved.Outfit = p.TempOutfit
	saved.TempOutfit = nil
	c.savedPlans[dateStr] = &saved
	delete(c.tempPlans, dateStr)

	if len(c.sliderDates) > 1 && c.slideIndex < len(c.sliderDates)-1 {
		c.slideIndex++
		return SaveAdvanced, nil
	}
	return SaveCompleted, nil
}

// DeleteDate removes a saved plan. The local entry goes regardless of the
// server's answer, then the saved map is rebuilt from the backend's
// authoritative list rather than from local assumption; if the server
// delete actually failed, the refresh brings the entry back and the error
// tells the user why.
func (c *Controller) DeleteDate(ctx context.Context, dateStr string) error {
	var deleteErr error
	if p, ok := c.savedPlans[dateStr]; ok && p.ID != 0 {
		deleteErr = c.api.DeletePlan(ctx, p.ID)
	}
	delete(c.savedPlans, dateStr)

	if err := c.LoadSavedPlans(ctx); err != nil && deleteErr == nil {
		deleteErr = err
	}
	return deleteErr
}

// RegenerateDate replaces a previously saved plan with a fresh generation
// for the same date: delete the persisted row, then generate as new,
// excluding the items that were on display so the user sees something
// different. Exclusions are best-effort and fall back to a smaller set,
// then to none, before an error state is accepted.
func (c *Controller) RegenerateDate(ctx context.Context, dateStr string) error {
	// Capture the currently shown items before any mutation clears them.
	var excludeIDs []int64
	if p, ok := c.tempPlans[dateStr]; ok && len(p.TempOutfit) > 0 {
		excludeIDs = outfit.IDs(p.TempOutfit)
	} else if p, ok := c.savedPlans[dateStr]; ok {
		excludeIDs = outfit.IDs(p.Outfit)
	}

	if p, ok := c.savedPlans[dateStr]; ok {
		if p.ID != 0 {
			if err := c.api.DeletePlan(ctx, p.ID); err != nil {
				return fmt.Errorf("failed to delete old plan: %w", err)
			}
		}
		// Seed the session from the saved plan so a regenerate straight
		// from the saved viewer has a location and occasion to work with.
		c.SetPlace(p.Location, p.Lat, p.Lon)
		c.SetOccasion(p.Occasion)
		delete(c.savedPlans, dateStr)
	}

	c.selectedDates = []string{dateStr}
	c.tempPlans = make(map[string]*Entry)
	c.sliderDates = nil
	c.slideIndex = 0

	attempts := [][]int64{excludeIDs}
	if len(excludeIDs) > 1 {
		attempts = append(attempts, excludeIDs[:len(excludeIDs)/2])
	}
	if len(excludeIDs) > 0 {
		attempts = append(attempts, nil)
	}

	var last *Entry
	var lastErr error
	for _, ids := range attempts {
		entry, err := c.buildEntry(ctx, dateStr, ids)
		if err != nil {
			lastErr = err
			continue
		}
		last = entry
		if entry.OutfitError == "" {
			break
		}
	}

	if last == nil {
		return lastErr
	}
	c.tempPlans[dateStr] = last
	return nil
}
