package planner

import (
	"context"
	"fmt"

	"outfit-planner/internal/backend"
	"outfit-planner/internal/outfit"
)

// GenerateForDate resolves weather and generates an outfit for one date,
// committing the result into the temp map. Saved plans are never touched.
//
// A missing forecast flags the entry instead of failing, so the user can
// pick the weather manually. A semantic generation failure is stored on
// the entry as OutfitError. Transport failures are returned to the caller
// with nothing committed.
func (c *Controller) GenerateForDate(ctx context.Context, dateStr string, excludeIDs []int64) (*Entry, error) {
	if !c.placeSelected {
		return nil, fmt.Errorf("no location selected")
	}

	entry, err := c.buildEntry(ctx, dateStr, excludeIDs)
	if err != nil {
		return nil, err
	}

	c.tempPlans[dateStr] = entry
	return entry, nil
}

// GenerateForRange generates outfits for every date of a multi-day
// session, strictly in order and sequentially. Items already assigned to
// earlier days are excluded from later days so the trip gets variety; if
// that over-constrains the generator for a day, the day is retried once
// with no exclusions before an error state is accepted for it. One day's
// failure never disturbs its siblings.
func (c *Controller) GenerateForRange(ctx context.Context, dates []string) error {
	if !c.placeSelected {
		return fmt.Errorf("no location selected")
	}

	c.sliderDates = append([]string(nil), dates...)
	c.slideIndex = 0
	c.tempPlans = make(map[string]*Entry)

	var usedIDs []int64
	for i, d := range c.sliderDates {
		if i > 0 && c.backoff.Delay > 0 {
			c.sleep(c.backoff.Delay)
		}

		entry, err := c.buildEntry(ctx, d, usedIDs)
		if err != nil {
			// Transport-level failure: flag this day and keep going so
			// the remaining days still get their outfits.
			entry = c.newEntry(d)
			entry.OutfitError = err.Error()
		}

		if entry.OutfitError != "" && len(usedIDs) > 0 {
			retry, err := c.buildEntry(ctx, d, nil)
			if err == nil && retry.OutfitError == "" {
				entry = retry
			}
		}

		c.tempPlans[d] = entry
		usedIDs = append(usedIDs, outfit.IDs(entry.TempOutfit)...)
	}
	return nil
}

// RegenerateMissing fills in a slider day that had no forecast, using the
// weather the user picked manually. Scoped to that single date; the slider
// stays on the same slide.
func (c *Controller) RegenerateMissing(ctx context.Context, dateStr, chosenWeather string) error {
	prev, ok := c.tempPlans[dateStr]
	if !ok {
		return fmt.Errorf("no pending plan for %s", dateStr)
	}
	if chosenWeather == "" {
		return fmt.Errorf("select weather first")
	}

	result, err := c.generateOutfit(ctx, backend.GenerateRequest{
		Lat:      prev.Lat,
		Lon:      prev.Lon,
		Occasion: prev.Occasion,
		Weather:  chosenWeather,
	})
	if err != nil {
		return err
	}

	entry := *prev
	entry.Weather = chosenWeather
	entry.Temp = nil
	entry.Description = ""
	entry.TempOutfit = result.Outfit
	entry.MissingWeather = false
	entry.OutfitError = ""
	c.tempPlans[dateStr] = &entry
	c.GoToSlide(dateStr)
	return nil
}

// DislikeDate regenerates one session day, excluding the items currently
// shown so variety is at least attempted. Falls back to a smaller
// exclusion set, then to none, if the exclusions over-constrain the
// generator. Other days are unaffected and the slider stays put.
func (c *Controller) DislikeDate(ctx context.Context, dateStr string) error {
	prev, ok := c.tempPlans[dateStr]
	if !ok {
		return fmt.Errorf("no pending plan for %s", dateStr)
	}

	excludeIDs := outfit.IDs(prev.TempOutfit)
	result, err := c.generateWithFallback(ctx, prev, excludeIDs)
	if err != nil {
		return err
	}

	entry := *prev
	entry.TempOutfit = result.Outfit
	entry.OutfitError = ""
	c.tempPlans[dateStr] = &entry
	c.GoToSlide(dateStr)
	return nil
}

/* ---------- internals ---------- */

func (c *Controller) newEntry(dateStr string) *Entry {
	return &Entry{
		Date:     dateStr,
		Location: c.location,
		Lat:      c.lat,
		Lon:      c.lon,
		Occasion: c.occasion,
	}
}

// buildEntry resolves weather and generation for one date into a fully
// formed entry, without committing anything. Callers assign the result
// into the temp map in one step.
func (c *Controller) buildEntry(ctx context.Context, dateStr string, excludeIDs []int64) (*Entry, error) {
	entry := c.newEntry(dateStr)

	if c.weatherOverride != "" {
		entry.Weather = c.weatherOverride
	} else {
		report, err := c.api.WeatherForDate(ctx, c.lat, c.lon, dateStr)
		if err != nil {
			if backend.IsSemantic(err) {
				// No forecast for this date: flag it and let the user
				// pick the weather manually.
				entry.MissingWeather = true
				return entry, nil
			}
			return nil, fmt.Errorf("weather lookup failed: %w", err)
		}
		entry.Weather = report.Weather
		entry.Temp = report.Temp
		entry.Description = report.Description
	}

	result, err := c.generateOutfit(ctx, backend.GenerateRequest{
		Lat:        entry.Lat,
		Lon:        entry.Lon,
		Occasion:   entry.Occasion,
		Weather:    entry.Weather,
		Temp:       entry.Temp,
		ExcludeIDs: excludeIDs,
	})
	if err != nil {
		if backend.IsSemantic(err) || backend.IsRateLimited(err) || backend.IsTimeout(err) {
			entry.OutfitError = err.Error()
			return entry, nil
		}
		return nil, err
	}

	entry.TempOutfit = result.Outfit
	return entry, nil
}

// generateOutfit calls the generator, absorbing a bounded number of
// rate-limit rejections with delayed retries.
func (c *Controller) generateOutfit(ctx context.Context, req backend.GenerateRequest) (backend.GenerateResult, error) {
	result, err := c.api.GenerateOutfit(ctx, req)
	for attempt := 0; err != nil && backend.IsRateLimited(err) && attempt < c.backoff.Retries; attempt++ {
		c.sleep(c.backoff.RetryDelay)
		result, err = c.api.GenerateOutfit(ctx, req)
	}
	return result, err
}

// generateWithFallback tries the full exclusion set, then half of it,
// then none. Variety is best-effort: a successful outfit always beats a
// failed exclusion constraint.
func (c *Controller) generateWithFallback(ctx context.Context, entry *Entry, excludeIDs []int64) (backend.GenerateResult, error) {
	attempts := [][]int64{excludeIDs}
	if len(excludeIDs) > 1 {
		attempts = append(attempts, excludeIDs[:len(excludeIDs)/2])
	}
	if len(excludeIDs) > 0 {
		attempts = append(attempts, nil)
	}

	var lastErr error
	for _, ids := range attempts {
		result, err := c.generateOutfit(ctx, backend.GenerateRequest{
			Lat:        entry.Lat,
			Lon:        entry.Lon,
			Occasion:   entry.Occasion,
			Weather:    entry.Weather,
			Temp:       entry.Temp,
			ExcludeIDs: ids,
		})
		if err == nil {
			return result, nil
		}
		lastErr = err
	}
	return backend.GenerateResult{}, lastErr
}
