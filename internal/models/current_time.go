package models

import (
	"time"

	"tramnet.mpk.org/internal/transit"
)

// CurrentTimeModel is the server clock, with the time of day trams are
// scheduled in.
type CurrentTimeModel struct {
	ReadableTime string `json:"readableTime"`
	Time         int64  `json:"time"`
	TimeOfDay    string `json:"timeOfDay"`
}

type CurrentTimeData struct {
	Entry      CurrentTimeModel `json:"entry"`
	References ReferencesModel  `json:"references"`
}

func NewCurrentTimeData(t time.Time) CurrentTimeData {
	return CurrentTimeData{
		Entry: CurrentTimeModel{
			ReadableTime: t.Format(time.RFC3339),
			Time:         t.UnixMilli(),
			TimeOfDay:    transit.TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}.String(),
		},
		References: NewEmptyReferences(),
	}
}
