package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"tramnet.mpk.org/internal/transit"
)

const maxRequestBytes = 4 << 20

// Handler returns the HTTP handler serving calls to hosted objects.
func (n *Node) Handler() http.Handler {
	router := httprouter.New()
	n.Routes(router)
	return router
}

// Routes mounts the RPC endpoints on an existing router.
func (n *Node) Routes(router *httprouter.Router) {
	router.POST("/rpc/:kind/:key/:method", n.handleCall)
	router.GET("/rpc/ping", n.handlePing)
}

func (n *Node) handlePing(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	n.writeJSON(w, http.StatusOK, callResponse{Result: n.Addr()})
}

func (n *Node) handleCall(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := transit.Identity{Kind: transit.Kind(ps.ByName("kind")), Key: ps.ByName("key")}
	method := ps.ByName("method")

	obj, ok := n.lookup(id)
	if !ok {
		n.writeJSON(w, http.StatusNotFound, callResponse{Error: fmt.Sprintf("%s: %v", id, errNoSuchObject)})
		return
	}

	args, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		n.writeJSON(w, http.StatusBadRequest, callResponse{Error: err.Error()})
		return
	}

	result, err := n.dispatch(r.Context(), obj, method, args)
	if err != nil {
		status := http.StatusInternalServerError
		var bad badArgs
		switch {
		case errors.As(err, &bad), errors.Is(err, errUnknownMethod):
			status = http.StatusBadRequest
		case transit.IsUnreachable(err):
			status = http.StatusBadGateway
		}
		n.logger.Warn("call failed",
			slog.String("identity", id.String()),
			slog.String("method", method),
			slog.Int("status", status),
			slog.String("error", err.Error()))
		n.writeJSON(w, status, callResponse{Error: err.Error()})
		return
	}
	n.writeJSON(w, http.StatusOK, callResponse{Result: result})
}

func (n *Node) writeJSON(w http.ResponseWriter, status int, body callResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		n.logger.Error("failed to encode rpc response", slog.String("error", err.Error()))
	}
}

func decodeArgs(raw []byte, v any) error {
	if len(raw) == 0 {
		return badArgs{errors.New("empty body")}
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return badArgs{err}
	}
	return nil
}

func (n *Node) dispatch(ctx context.Context, obj transit.Object, method string, args []byte) (any, error) {
	switch o := obj.(type) {
	case transit.Registry:
		return n.dispatchRegistry(ctx, o, method, args)
	case transit.Line:
		return n.dispatchLine(ctx, o, method, args)
	case transit.Stop:
		return n.dispatchStop(ctx, o, method, args)
	case transit.Tram:
		return n.dispatchTram(ctx, o, method, args)
	case transit.User:
		return n.dispatchUser(ctx, o, method, args)
	}
	return nil, fmt.Errorf("%s: %w", obj.Identity(), errUnknownMethod)
}

func (n *Node) dispatchRegistry(ctx context.Context, r transit.Registry, method string, args []byte) (any, error) {
	switch method {
	case "Lines":
		lines, err := r.Lines(ctx)
		if err != nil {
			return nil, err
		}
		return n.refs(lineObjects(lines)), nil
	case "AddLine", "RemoveLine":
		var a lineArgs
		if err := decodeArgs(args, &a); err != nil {
			return nil, err
		}
		if method == "AddLine" {
			return nil, r.AddLine(ctx, n.Line(a.Line))
		}
		return nil, r.RemoveLine(ctx, n.Line(a.Line))
	case "Stop":
		var a idArgs
		if err := decodeArgs(args, &a); err != nil {
			return nil, err
		}
		stop, found, err := r.Stop(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		return n.encodeStopLookup(stop, found), nil
	}
	return nil, fmt.Errorf("registry.%s: %w", method, errUnknownMethod)
}

func (n *Node) dispatchLine(ctx context.Context, l transit.Line, method string, args []byte) (any, error) {
	switch method {
	case "Stops":
		stops, err := l.Stops(ctx)
		if err != nil {
			return nil, err
		}
		return n.refs(stopObjects(stops)), nil
	case "Trams":
		trams, err := l.Trams(ctx)
		if err != nil {
			return nil, err
		}
		return n.refs(tramObjects(trams)), nil
	case "AddTram", "RemoveTram":
		var a tramArgs
		if err := decodeArgs(args, &a); err != nil {
			return nil, err
		}
		if method == "AddTram" {
			return nil, l.AddTram(ctx, n.Tram(a.Tram))
		}
		return nil, l.RemoveTram(ctx, n.Tram(a.Tram))
	}
	return nil, fmt.Errorf("line.%s: %w", method, errUnknownMethod)
}

func (n *Node) dispatchStop(ctx context.Context, s transit.Stop, method string, args []byte) (any, error) {
	switch method {
	case "ID":
		return s.ID(ctx)
	case "Name":
		return s.Name(ctx)
	case "Lines":
		lines, err := s.Lines(ctx)
		if err != nil {
			return nil, err
		}
		return n.refs(lineObjects(lines)), nil
	case "Arrivals":
		arrivals, err := s.Arrivals(ctx)
		if err != nil {
			return nil, err
		}
		return n.encodeArrivals(arrivals), nil
	case "RegisterUser", "UnregisterUser":
		var a userArgs
		if err := decodeArgs(args, &a); err != nil {
			return nil, err
		}
		if method == "RegisterUser" {
			return nil, s.RegisterUser(ctx, n.User(a.User))
		}
		return nil, s.UnregisterUser(ctx, n.User(a.User))
	}
	return nil, fmt.Errorf("stop.%s: %w", method, errUnknownMethod)
}

func (n *Node) dispatchTram(ctx context.Context, t transit.Tram, method string, args []byte) (any, error) {
	switch method {
	case "ID":
		return t.ID(ctx)
	case "Schedule":
		schedule, err := t.Schedule(ctx)
		if err != nil {
			return nil, err
		}
		return n.encodeSchedule(schedule), nil
	case "CurrentStop":
		stop, found, err := t.CurrentStop(ctx)
		if err != nil {
			return nil, err
		}
		return n.encodeStopLookup(stop, found), nil
	case "StopTime":
		var a idArgs
		if err := decodeArgs(args, &a); err != nil {
			return nil, err
		}
		return t.StopTime(ctx, a.ID)
	case "RegisterUser", "UnregisterUser":
		var a userArgs
		if err := decodeArgs(args, &a); err != nil {
			return nil, err
		}
		if method == "RegisterUser" {
			return nil, t.RegisterUser(ctx, n.User(a.User))
		}
		return nil, t.UnregisterUser(ctx, n.User(a.User))
	}
	return nil, fmt.Errorf("tram.%s: %w", method, errUnknownMethod)
}

func (n *Node) dispatchUser(ctx context.Context, u transit.User, method string, args []byte) (any, error) {
	switch method {
	case "TramUpdated":
		var a tramUpdatedArgs
		if err := decodeArgs(args, &a); err != nil {
			return nil, err
		}
		return nil, u.TramUpdated(ctx, n.Tram(a.Tram), n.Stop(a.Stop))
	case "StopUpdated":
		var a stopUpdatedArgs
		if err := decodeArgs(args, &a); err != nil {
			return nil, err
		}
		return nil, u.StopUpdated(ctx, n.Stop(a.Stop), n.decodeArrivals(a.Arrivals))
	}
	return nil, fmt.Errorf("user.%s: %w", method, errUnknownMethod)
}
