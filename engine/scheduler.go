package engine

import (
	"errors"
	"strings"
	"time"

	"github.com/matchday-dev/cup-manager/models"
)

// DailyCutoffHour is the hour of day at or after which no match may kick off;
// slots past it roll over to the next day at the configured start time.
const DailyCutoffHour = 21

var (
	ErrNoGroupsDefined  = errors.New("no groups defined, draw groups before generating fixtures")
	ErrNoVenuesProvided = errors.New("at least one venue is required")
)

// ScheduleConfig carries the validated scheduling parameters. Start is the
// first day's first kickoff (date and time of day combined).
type ScheduleConfig struct {
	Venues        []string
	Start         time.Time
	MatchDuration int // minutes
	BreakBetween  int // minutes
	RestSlots     int // minimum slots between two matches of the same team
}

func (c ScheduleConfig) slotInterval() time.Duration {
	return time.Duration(c.MatchDuration+c.BreakBetween) * time.Minute
}

type pairing struct {
	home    models.Team
	away    models.Team
	groupID int
}

type placedPairing struct {
	pairing
	slot   int
	venue  string
	forced bool
}

// ScheduleGroupStage enumerates the round-robin pairings of every group,
// shuffles them, and fills time slots greedily: per slot, each venue takes the
// first remaining pairing whose teams are neither already playing in that slot
// nor short of RestSlots of rest since their last match. A venue with no
// eligible pairing stays idle for the slot. The search is bounded at 10x the
// pairing count; anything still unplaced is then force-assigned round-robin
// across venues in subsequent slots, ignoring the rest constraint, and marked
// ForcedSchedule so callers can flag it.
func ScheduleGroupStage(groups []models.Group, cfg ScheduleConfig) ([]models.Match, error) {
	if len(groups) == 0 {
		return nil, ErrNoGroupsDefined
	}
	venues := CleanVenues(cfg.Venues)
	if len(venues) == 0 {
		return nil, ErrNoVenuesProvided
	}

	remaining := Shuffle(groupStagePairings(groups))

	placed := make([]placedPairing, 0, len(remaining))
	lastSlot := make(map[int]int) // team id -> last slot played
	maxSlots := len(remaining) * 10

	slot := 0
	for len(remaining) > 0 && slot < maxSlots {
		busy := make(map[int]bool)
		for v := 0; v < len(venues) && len(remaining) > 0; v++ {
			for i, p := range remaining {
				if busy[p.home.ID] || busy[p.away.ID] {
					continue
				}
				if !rested(lastSlot, p.home.ID, slot, cfg.RestSlots) || !rested(lastSlot, p.away.ID, slot, cfg.RestSlots) {
					continue
				}
				placed = append(placed, placedPairing{pairing: p, slot: slot, venue: venues[v]})
				busy[p.home.ID] = true
				busy[p.away.ID] = true
				lastSlot[p.home.ID] = slot
				lastSlot[p.away.ID] = slot
				remaining = append(remaining[:i], remaining[i+1:]...)
				break
			}
		}
		slot++
	}

	// Defensive fallback, not expected in normal operation.
	for _, p := range remaining {
		placed = append(placed, placedPairing{
			pairing: p,
			slot:    slot,
			venue:   venues[len(placed)%len(venues)],
			forced:  true,
		})
		slot++
	}

	interval := cfg.slotInterval()
	matches := make([]models.Match, 0, len(placed))
	for _, p := range placed {
		groupID := p.groupID
		matches = append(matches, models.Match{
			Round:          models.RoundGroup,
			GroupID:        &groupID,
			Home:           models.TeamSide(p.home.ID),
			Away:           models.TeamSide(p.away.ID),
			Venue:          p.venue,
			KickoffAt:      slotTime(cfg.Start, p.slot, interval),
			Status:         models.StatusScheduled,
			ForcedSchedule: p.forced,
		})
	}
	return matches, nil
}

// ScheduleSimple is the non-constrained fallback generator: one match per
// slot on a single venue, no rest or contention logic. The constrained
// ScheduleGroupStage is the canonical path.
func ScheduleSimple(groups []models.Group, cfg ScheduleConfig) ([]models.Match, error) {
	if len(groups) == 0 {
		return nil, ErrNoGroupsDefined
	}
	venue := "Main Pitch"
	if venues := CleanVenues(cfg.Venues); len(venues) > 0 {
		venue = venues[0]
	}

	interval := cfg.slotInterval()
	pairings := Shuffle(groupStagePairings(groups))
	matches := make([]models.Match, 0, len(pairings))
	for i, p := range pairings {
		groupID := p.groupID
		matches = append(matches, models.Match{
			Round:     models.RoundGroup,
			GroupID:   &groupID,
			Home:      models.TeamSide(p.home.ID),
			Away:      models.TeamSide(p.away.ID),
			Venue:     venue,
			KickoffAt: slotTime(cfg.Start, i, interval),
			Status:    models.StatusScheduled,
		})
	}
	return matches, nil
}

// CleanVenues trims the venue labels and drops blank entries.
func CleanVenues(venues []string) []string {
	out := make([]string, 0, len(venues))
	for _, v := range venues {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func groupStagePairings(groups []models.Group) []pairing {
	var pairings []pairing
	for _, g := range groups {
		for i := 0; i < len(g.Teams); i++ {
			for j := i + 1; j < len(g.Teams); j++ {
				pairings = append(pairings, pairing{home: g.Teams[i], away: g.Teams[j], groupID: g.ID})
			}
		}
	}
	return pairings
}

func rested(lastSlot map[int]int, teamID, slot, restSlots int) bool {
	last, ok := lastSlot[teamID]
	if !ok {
		return true // a team with no prior match is treated as rested
	}
	return slot-last >= restSlots
}

// slotTime maps a slot index to a kickoff. Each day holds as many slots as
// fit between the daily start time and DailyCutoffHour; later slots wrap to
// the following day at the same start time.
func slotTime(start time.Time, slot int, interval time.Duration) time.Time {
	cutoff := time.Date(start.Year(), start.Month(), start.Day(), DailyCutoffHour, 0, 0, 0, start.Location())
	slotsPerDay := 1
	if window := cutoff.Sub(start); window > interval {
		slotsPerDay = int(window / interval)
	}
	day := slot / slotsPerDay
	within := slot % slotsPerDay
	return start.AddDate(0, 0, day).Add(time.Duration(within) * interval)
}
