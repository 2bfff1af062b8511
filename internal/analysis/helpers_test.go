package analysis

import (
	"time"

	"go.uber.org/zap"

	"github.com/meridian/chronolens/internal/core"
	"github.com/meridian/chronolens/internal/utils"
)

var testTP = utils.NewTextProcessor(zap.NewNop())

func day(n int) time.Time {
	return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func ev(id string, ts time.Time, kind core.EventKind, participants []string) core.CommunicationEvent {
	return core.CommunicationEvent{
		ID:           id,
		Timestamp:    ts,
		Kind:         kind,
		Participants: participants,
	}
}
