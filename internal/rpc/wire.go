package rpc

import (
	"tramnet.mpk.org/internal/transit"
)

// Ref is the wire form of an actor reference: its identity plus the base
// URL of the node hosting it.
type Ref struct {
	Kind transit.Kind `json:"kind"`
	Key  string       `json:"key"`
	Addr string       `json:"addr"`
}

func (r Ref) Identity() transit.Identity {
	return transit.Identity{Kind: r.Kind, Key: r.Key}
}

func (r Ref) String() string {
	return r.Addr + "/" + string(r.Kind) + "/" + r.Key
}

type scheduleItemWire struct {
	Stop Ref               `json:"stop"`
	Time transit.TimeOfDay `json:"time"`
}

type arrivalWire struct {
	Tram Ref               `json:"tram"`
	Time transit.TimeOfDay `json:"time"`
}

// stopLookup carries an optional stop.
type stopLookup struct {
	Stop  *Ref `json:"stop,omitempty"`
	Found bool `json:"found"`
}

type idArgs struct {
	ID int `json:"id"`
}

type lineArgs struct {
	Line Ref `json:"line"`
}

type tramArgs struct {
	Tram Ref `json:"tram"`
}

type userArgs struct {
	User Ref `json:"user"`
}

type tramUpdatedArgs struct {
	Tram Ref `json:"tram"`
	Stop Ref `json:"stop"`
}

type stopUpdatedArgs struct {
	Stop     Ref           `json:"stop"`
	Arrivals []arrivalWire `json:"arrivals"`
}

type callResponse struct {
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// encoders from domain values to wire values

func (n *Node) refs(objs []transit.Object) []Ref {
	out := make([]Ref, len(objs))
	for i, obj := range objs {
		out[i] = n.RefOf(obj)
	}
	return out
}

func (n *Node) encodeSchedule(items []transit.ScheduleItem) []scheduleItemWire {
	out := make([]scheduleItemWire, len(items))
	for i, item := range items {
		out[i] = scheduleItemWire{Stop: n.RefOf(item.Stop), Time: item.Time}
	}
	return out
}

func (n *Node) encodeArrivals(arrivals []transit.Arrival) []arrivalWire {
	out := make([]arrivalWire, len(arrivals))
	for i, a := range arrivals {
		out[i] = arrivalWire{Tram: n.RefOf(a.Tram), Time: a.Time}
	}
	return out
}

func (n *Node) encodeStopLookup(stop transit.Stop, found bool) stopLookup {
	if !found || stop == nil {
		return stopLookup{}
	}
	ref := n.RefOf(stop)
	return stopLookup{Stop: &ref, Found: true}
}

// decoders from wire values to local objects or proxies

func (n *Node) decodeSchedule(items []scheduleItemWire) []transit.ScheduleItem {
	out := make([]transit.ScheduleItem, len(items))
	for i, item := range items {
		out[i] = transit.ScheduleItem{Stop: n.Stop(item.Stop), Time: item.Time}
	}
	return out
}

func (n *Node) decodeArrivals(arrivals []arrivalWire) []transit.Arrival {
	out := make([]transit.Arrival, len(arrivals))
	for i, a := range arrivals {
		out[i] = transit.Arrival{Tram: n.Tram(a.Tram), Time: a.Time}
	}
	return out
}

func (n *Node) decodeStopLookup(l stopLookup) (transit.Stop, bool) {
	if !l.Found || l.Stop == nil {
		return nil, false
	}
	return n.Stop(*l.Stop), true
}

func lineObjects(lines []transit.Line) []transit.Object {
	out := make([]transit.Object, len(lines))
	for i, l := range lines {
		out[i] = l
	}
	return out
}

func stopObjects(stops []transit.Stop) []transit.Object {
	out := make([]transit.Object, len(stops))
	for i, s := range stops {
		out[i] = s
	}
	return out
}

func tramObjects(trams []transit.Tram) []transit.Object {
	out := make([]transit.Object, len(trams))
	for i, t := range trams {
		out[i] = t
	}
	return out
}
