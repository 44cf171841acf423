package models

import "tramnet.mpk.org/internal/transit"

type StopModel struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	LineIDs []string `json:"lineIds"`
}

type LineModel struct {
	ID      string `json:"id"`
	Number  int    `json:"number"`
	StopIDs []int  `json:"stopIds"`
	TramIDs []int  `json:"tramIds"`
}

type ScheduleItemModel struct {
	StopID   int    `json:"stopId"`
	StopName string `json:"stopName"`
	Time     string `json:"time"`
}

type TramModel struct {
	ID            int                 `json:"id"`
	Key           string              `json:"key"`
	CurrentStopID *int                `json:"currentStopId"`
	Schedule      []ScheduleItemModel `json:"schedule"`
}

type ArrivalModel struct {
	TramID int    `json:"tramId"`
	Time   string `json:"time"`
	Hour   int    `json:"hour"`
	Minute int    `json:"minute"`
}

// ArrivalsForStop is the arrivals board of one stop.
type ArrivalsForStop struct {
	StopID   int            `json:"stopId"`
	StopName string         `json:"stopName"`
	Arrivals []ArrivalModel `json:"arrivals"`
}

func NewArrivalModel(tramID int, at transit.TimeOfDay) ArrivalModel {
	return ArrivalModel{
		TramID: tramID,
		Time:   at.String(),
		Hour:   at.Hour,
		Minute: at.Minute,
	}
}

func NewScheduleItemModel(stopID int, stopName string, at transit.TimeOfDay) ScheduleItemModel {
	return ScheduleItemModel{StopID: stopID, StopName: stopName, Time: at.String()}
}
