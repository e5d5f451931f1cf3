package leaderboard

import (
	"time"

	ws "github.com/gokatarajesh/iqtest/pkg/http/ws"
)

func toWSEntries(entries []Entry) []ws.LeaderboardEntry {
	result := make([]ws.LeaderboardEntry, len(entries))
	for i, e := range entries {
		result[i] = ws.LeaderboardEntry{
			Rank:       i + 1,
			UserID:     e.UserID,
			Nickname:   e.Nickname,
			Difficulty: e.Difficulty,
			Score:      e.Score,
			IQ:         e.IQ,
		}
		if !e.UpdatedAt.IsZero() {
			result[i].UpdatedAt = e.UpdatedAt.UTC().Format(time.RFC3339)
		}
	}
	return result
}

func updateMessage(res Result) (ws.Message, error) {
	return ws.NewMessage(ws.TypeLeaderboardUpdate, ws.LeaderboardUpdatePayload{
		Filter:    res.Filter,
		Top:       toWSEntries(res.Entries),
		Source:    res.Source,
		UpdatedAt: res.RetrievedAt.Format(time.RFC3339),
	})
}
