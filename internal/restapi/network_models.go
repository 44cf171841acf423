package restapi

import (
	"context"

	"tramnet.mpk.org/internal/models"
	"tramnet.mpk.org/internal/transit"
)

// Builders from live actors to response models. Actors that cannot be
// reached are left out, as the network itself does.

func lineModel(ctx context.Context, number int, line transit.Line) (models.LineModel, error) {
	m := models.LineModel{
		ID:      line.Identity().Key,
		Number:  number,
		StopIDs: []int{},
		TramIDs: []int{},
	}
	stops, err := line.Stops(ctx)
	if err != nil {
		return m, err
	}
	for _, stop := range stops {
		id, err := stop.ID(ctx)
		if err != nil {
			return m, err
		}
		m.StopIDs = append(m.StopIDs, id)
	}
	trams, err := line.Trams(ctx)
	if err != nil {
		return m, err
	}
	for _, tram := range trams {
		id, err := tram.ID(ctx)
		if err != nil {
			if transit.IsUnreachable(err) {
				continue
			}
			return m, err
		}
		m.TramIDs = append(m.TramIDs, id)
	}
	return m, nil
}

func stopModel(ctx context.Context, stop transit.Stop) (models.StopModel, error) {
	id, err := stop.ID(ctx)
	if err != nil {
		return models.StopModel{}, err
	}
	name, err := stop.Name(ctx)
	if err != nil {
		return models.StopModel{}, err
	}
	lines, err := stop.Lines(ctx)
	if err != nil {
		return models.StopModel{}, err
	}
	m := models.StopModel{ID: id, Name: name, LineIDs: make([]string, 0, len(lines))}
	for _, line := range lines {
		m.LineIDs = append(m.LineIDs, line.Identity().Key)
	}
	return m, nil
}

func tramModel(ctx context.Context, tram transit.Tram) (models.TramModel, error) {
	id, err := tram.ID(ctx)
	if err != nil {
		return models.TramModel{}, err
	}
	schedule, err := tram.Schedule(ctx)
	if err != nil {
		return models.TramModel{}, err
	}
	m := models.TramModel{
		ID:       id,
		Key:      tram.Identity().Key,
		Schedule: make([]models.ScheduleItemModel, 0, len(schedule)),
	}
	for i, item := range schedule {
		stopID, err := item.Stop.ID(ctx)
		if err != nil {
			return models.TramModel{}, err
		}
		name, err := item.Stop.Name(ctx)
		if err != nil {
			return models.TramModel{}, err
		}
		if i == 0 {
			current := stopID
			m.CurrentStopID = &current
		}
		m.Schedule = append(m.Schedule, models.NewScheduleItemModel(stopID, name, item.Time))
	}
	return m, nil
}

// arrivalsForStop renders a board. Arrivals whose tram has gone away are
// dropped.
func arrivalsForStop(ctx context.Context, stop transit.Stop, arrivals []transit.Arrival) (models.ArrivalsForStop, error) {
	id, err := stop.ID(ctx)
	if err != nil {
		return models.ArrivalsForStop{}, err
	}
	name, err := stop.Name(ctx)
	if err != nil {
		return models.ArrivalsForStop{}, err
	}
	board := models.ArrivalsForStop{
		StopID:   id,
		StopName: name,
		Arrivals: make([]models.ArrivalModel, 0, len(arrivals)),
	}
	for _, a := range arrivals {
		tramID, err := a.Tram.ID(ctx)
		if err != nil {
			if transit.IsUnreachable(err) {
				continue
			}
			return models.ArrivalsForStop{}, err
		}
		board.Arrivals = append(board.Arrivals, models.NewArrivalModel(tramID, a.Time))
	}
	return board, nil
}
