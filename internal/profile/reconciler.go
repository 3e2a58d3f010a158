package profile

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/reelmates/reelsync/internal/catalog"
	"github.com/reelmates/reelsync/internal/fetcher"
	"github.com/reelmates/reelsync/internal/normalize"
)

type Phase int

const (
	PhaseViewing Phase = iota
	PhaseEditing
	PhaseSaving
)

func (p Phase) String() string {
	switch p {
	case PhaseViewing:
		return "viewing"
	case PhaseEditing:
		return "editing"
	case PhaseSaving:
		return "saving"
	}
	return "unknown"
}

var usernamePattern = regexp.MustCompile(`(?i)^[a-z0-9._-]{3,30}$`)

// ValidationErrors maps field names to messages. It blocks a save before any
// request is issued.
type ValidationErrors map[string]string

func (e ValidationErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// SaveError reports the outcome of the two concurrent save requests. The two
// updates are independent on the server, so one may have applied even though
// the other failed; callers can tell exactly which from the nil-ness of each
// field.
type SaveError struct {
	Profile  error
	Services error
}

func (e *SaveError) Error() string {
	switch {
	case e.Profile != nil && e.Services != nil:
		return "profile and service updates failed: " + e.Profile.Error() + "; " + e.Services.Error()
	case e.Profile != nil:
		return "profile update failed: " + e.Profile.Error()
	default:
		return "service selection update failed: " + e.Services.Error()
	}
}

// API is the slice of the transport client the reconciler needs.
type API interface {
	UpdateProfile(ctx context.Context, update fetcher.ProfileUpdate) (normalize.Profile, error)
	UpdateSelectedServices(ctx context.Context, serviceIDs []string) ([]normalize.Service, error)
}

// Draft holds the local edit buffer.
type Draft struct {
	Name               string
	Username           string
	AvatarURL          string
	SelectedServiceIDs []string
}

// Reconciler owns the profile edit lifecycle: a draft over canonical state,
// validation, and the two-resource save.
type Reconciler struct {
	mu        sync.Mutex
	api       API
	phase     Phase
	canonical normalize.Profile
	selection []normalize.Service
	catalog   []normalize.Service
	draft     Draft
	dirty     bool
}

func NewReconciler(api API, current normalize.Profile, selection, services []normalize.Service) *Reconciler {
	r := &Reconciler{
		api:       api,
		phase:     PhaseViewing,
		canonical: current,
		selection: selection,
		catalog:   services,
	}
	r.draft = r.draftFromCanonicalLocked()
	return r
}

func (r *Reconciler) draftFromCanonicalLocked() Draft {
	ids := make([]string, 0, len(r.selection))
	for _, svc := range r.selection {
		ids = append(ids, svc.ID)
	}
	return Draft{
		Name:               r.canonical.Name,
		Username:           r.canonical.Username,
		AvatarURL:          r.canonical.AvatarURL,
		SelectedServiceIDs: orderSelection(ids, r.catalog),
	}
}

// SetCatalog replaces the known service catalog (already merged and sorted)
// and re-orders the draft selection against it.
func (r *Reconciler) SetCatalog(services []normalize.Service) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.catalog = services
	r.draft.SelectedServiceIDs = orderSelection(r.draft.SelectedServiceIDs, r.catalog)
}

func (r *Reconciler) SetName(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.editLocked()
	r.draft.Name = name
}

func (r *Reconciler) SetUsername(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.editLocked()
	r.draft.Username = username
}

// SetAvatar validates an uploaded image into the draft. A rejected upload
// leaves the previous avatar value untouched and reports a field error.
func (r *Reconciler) SetAvatar(data []byte) error {
	encoded, err := EncodeAvatar(data)
	if err != nil {
		return ValidationErrors{"avatar": err.Error()}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.editLocked()
	r.draft.AvatarURL = encoded
	return nil
}

// ToggleService flips a service in or out of the draft selection. The
// selection stays in catalog order; ids not yet in the catalog go after the
// known ones until the next catalog pass.
func (r *Reconciler) ToggleService(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.editLocked()

	for i, sel := range r.draft.SelectedServiceIDs {
		if sel == id {
			r.draft.SelectedServiceIDs = append(
				r.draft.SelectedServiceIDs[:i],
				r.draft.SelectedServiceIDs[i+1:]...,
			)
			return
		}
	}
	r.draft.SelectedServiceIDs = orderSelection(append(r.draft.SelectedServiceIDs, id), r.catalog)
}

func (r *Reconciler) editLocked() {
	if r.phase == PhaseViewing {
		r.phase = PhaseEditing
	}
	r.dirty = true
}

// Validate checks the draft without touching the network.
func (r *Reconciler) Validate() ValidationErrors {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.validateLocked()
}

func (r *Reconciler) validateLocked() ValidationErrors {
	errs := ValidationErrors{}
	if strings.TrimSpace(r.draft.Name) == "" {
		errs["name"] = "display name is required"
	}
	if !usernamePattern.MatchString(r.draft.Username) {
		errs["username"] = "username must be 3-30 characters of letters, digits, '.', '_' or '-'"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Save submits the profile fields and the service selection as two
// concurrent, independent updates. Both always run to completion; if either
// fails the save is reported failed via SaveError and the phase returns to
// Editing, even though the other update may already have applied server-side.
// On success canonical state is replaced from both responses.
func (r *Reconciler) Save(ctx context.Context) error {
	r.mu.Lock()
	if r.phase == PhaseSaving {
		r.mu.Unlock()
		return nil
	}
	if errs := r.validateLocked(); errs != nil {
		r.mu.Unlock()
		return errs
	}
	r.phase = PhaseSaving
	update := fetcher.ProfileUpdate{
		Name:     strings.TrimSpace(r.draft.Name),
		Username: strings.ToLower(r.draft.Username),
		Avatar:   r.draft.AvatarURL,
	}
	serviceIDs := make([]string, len(r.draft.SelectedServiceIDs))
	copy(serviceIDs, r.draft.SelectedServiceIDs)
	r.mu.Unlock()

	var (
		wg          sync.WaitGroup
		savedProf   normalize.Profile
		savedSel    []normalize.Service
		profErr     error
		servicesErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		savedProf, profErr = r.api.UpdateProfile(ctx, update)
	}()
	go func() {
		defer wg.Done()
		savedSel, servicesErr = r.api.UpdateSelectedServices(ctx, serviceIDs)
	}()
	wg.Wait()

	r.mu.Lock()
	defer r.mu.Unlock()

	if profErr != nil || servicesErr != nil {
		r.phase = PhaseEditing
		return &SaveError{Profile: profErr, Services: servicesErr}
	}

	r.canonical = savedProf
	catalog.Sort(savedSel)
	r.selection = savedSel
	r.draft = r.draftFromCanonicalLocked()
	r.dirty = false
	r.phase = PhaseViewing
	return nil
}

func (r *Reconciler) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

func (r *Reconciler) Dirty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dirty
}

func (r *Reconciler) Draft() Draft {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.draft
	d.SelectedServiceIDs = append([]string(nil), r.draft.SelectedServiceIDs...)
	return d
}

func (r *Reconciler) Canonical() normalize.Profile {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.canonical
}

func (r *Reconciler) Selection() []normalize.Service {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]normalize.Service(nil), r.selection...)
}

// orderSelection arranges selected ids in catalog order. Ids unknown to the
// catalog keep their relative order after the known ones.
func orderSelection(ids []string, services []normalize.Service) []string {
	pos := make(map[string]int, len(services))
	for i, svc := range services {
		pos[svc.ID] = i
	}

	known := make([]string, 0, len(ids))
	unknown := make([]string, 0)
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := pos[id]; ok {
			known = append(known, id)
		} else {
			unknown = append(unknown, id)
		}
	}

	for i := 1; i < len(known); i++ {
		for j := i; j > 0 && pos[known[j-1]] > pos[known[j]]; j-- {
			known[j-1], known[j] = known[j], known[j-1]
		}
	}

	return append(known, unknown...)
}
