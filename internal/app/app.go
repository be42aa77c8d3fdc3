// Package app wires the component tree to the state container.
//
// The tree is fixed and acyclic, evaluated leaf-first:
//
//	state.Store ─┬─> derive.UserFilter ──> active-user list (gated, props+state)
//	             ├────────────────────────> user list (gated, props only)
//	             └────────────────────────> ProfileView (fault boundary)
//
// For every applied event the order is strictly: (1) state mutation,
// (2) derived re-evaluation then gate decisions, (3) observation hooks
// after the value has settled. Processing of one event never interleaves
// with another; the runtime loop guarantees that.
package app

import (
	"fmt"

	"github.com/viewloop/viewloop/internal/derive"
	"github.com/viewloop/viewloop/internal/fault"
	"github.com/viewloop/viewloop/internal/gate"
	"github.com/viewloop/viewloop/internal/model"
	"github.com/viewloop/viewloop/internal/runtime"
	"github.com/viewloop/viewloop/internal/state"
	"github.com/viewloop/viewloop/internal/trace"
	"github.com/viewloop/viewloop/internal/view"
)

// Component instance names as they appear in the trace.
const (
	UserListName       = "user_list"
	ActiveUserListName = "active_user_list"
	ProfileBoundary    = "profile"
)

// DefaultUsers is the demo's starting user list.
func DefaultUsers() []model.User {
	return []model.User{
		{Name: "Maithili", Email: "maithili@gmail.com"},
		{Name: "Shubham", Email: "shubham@hotmail.com"},
	}
}

// App owns the whole tree: the state container, the derived filter, the two
// gated list views and the profile view inside its fault boundary.
//
// NOT safe for concurrent use; Apply runs on the single-writer loop.
type App struct {
	store    *state.Store
	filter   *derive.UserFilter
	userList *gate.Instance
	active   *gate.Instance
	boundary *fault.Boundary
	rec      *trace.Recorder

	activeUsers []model.User
	profileOut  *model.Output
}

// New builds the tree over an initial state and performs the mount render
// pass. On mount no gate has previous inputs, so nothing is skipped: the
// trace opens with one filter recomputation and one render per list view.
func New(rec *trace.Recorder, opts ...state.Option) *App {
	a := &App{
		store:  state.New(opts...),
		filter: derive.NewUserFilter(),
		rec:    rec,
	}

	onRender := func(name string, renders int) {
		a.rec.Record(trace.KindViewRendered, map[string]any{
			"view":    name,
			"renders": renders,
		})
	}
	a.userList = gate.NewInstance(UserListName, gate.ShallowProps, onRender)
	a.active = gate.NewInstance(ActiveUserListName, gate.ShallowPropsAndState, onRender)

	a.boundary = fault.NewBoundary(ProfileBoundary, func(err error) {
		a.rec.Record(trace.KindFailureCaught, map[string]any{
			"boundary": ProfileBoundary,
			"error":    err.Error(),
		})
	})

	a.renderPass()
	return a
}

// Apply processes one dispatched event end to end.
// Implements runtime.Handler.
func (a *App) Apply(ev runtime.Event) error {
	switch ev.Action {
	case runtime.ActionIncrement:
		counter := a.store.Increment()
		a.renderPass()
		a.rec.Record(trace.KindCounterChanged, map[string]any{
			"counter": counter,
		})

	case runtime.ActionAddUser:
		u := a.store.AddUser()
		a.renderPass()
		a.rec.Record(trace.KindUserAdded, map[string]any{
			"name":  u.Name,
			"email": u.Email,
			"users": int64(a.store.UserCount()),
		})

	case runtime.ActionToggleError:
		visible := a.store.ToggleErrorVisible()
		a.renderPass()
		a.rec.Record(trace.KindErrorToggled, map[string]any{
			"error_visible": visible,
		})

	case runtime.ActionResetBoundary:
		wasFaulted := a.boundary.Faulted()
		a.boundary.Reset()
		a.renderPass()
		if wasFaulted {
			a.rec.Record(trace.KindBoundaryReset, map[string]any{
				"boundary": ProfileBoundary,
			})
		}

	default:
		return fmt.Errorf("unknown action %q", ev.Action)
	}
	return nil
}

// renderPass re-evaluates the tree leaf-first: derived value, then the two
// gated list views, then the profile view through its boundary.
func (a *App) renderPass() {
	snap := a.store.Snapshot()

	active, recomputed := a.filter.Filter(snap.Users)
	if recomputed {
		a.rec.Record(trace.KindFilterRecomputed, map[string]any{
			"scans":  a.filter.Scans(),
			"active": int64(len(active)),
		})
	}
	a.activeUsers = active

	a.userList.Render(
		gate.Inputs{Props: model.Props{"users": snap.Users}},
		func() *model.Output { return view.RenderUserList("All users", snap.Users) },
	)

	a.active.Render(
		gate.Inputs{
			Props: model.Props{"users": active},
			// Neither list view holds internal state; the state rule is
			// exercised with an empty snapshot and trivially passes.
			State: model.Props{},
		},
		func() *model.Output { return view.RenderUserList("Active users", active) },
	)

	a.profileOut = a.boundary.Render(func() (*model.Output, error) {
		return view.RenderProfile(a.profileUser(snap))
	})
}

// profileUser picks the profile view's input from a snapshot: absent while
// the error flag is up or the list is empty, else the first user.
func (a *App) profileUser(snap state.Snapshot) *model.User {
	if snap.ErrorVisible || len(snap.Users) == 0 {
		return nil
	}
	u := snap.Users[0]
	return &u
}

// Snapshot returns the current application state.
func (a *App) Snapshot() state.Snapshot {
	return a.store.Snapshot()
}

// ActiveUsers returns the current derived filter result.
func (a *App) ActiveUsers() []model.User {
	return a.activeUsers
}

// FilterScans returns how many times the derived filter actually scanned.
func (a *App) FilterScans() int {
	return a.filter.Scans()
}

// UserList returns the props-gated list instance.
func (a *App) UserList() *gate.Instance {
	return a.userList
}

// ActiveUserList returns the props+state-gated list instance.
func (a *App) ActiveUserList() *gate.Instance {
	return a.active
}

// Boundary returns the profile fault boundary.
func (a *App) Boundary() *fault.Boundary {
	return a.boundary
}

// ProfileOutput returns the boundary's current output (profile or fallback).
func (a *App) ProfileOutput() *model.Output {
	return a.profileOut
}

// Outputs returns the current display values in tree order.
func (a *App) Outputs() []*model.Output {
	return []*model.Output{
		a.userList.Output(),
		a.active.Output(),
		a.profileOut,
	}
}
