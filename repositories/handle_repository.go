package repositories

import (
	"fmt"
	"log/slog"
	"presence-lab/contract"
	"presence-lab/domain"
	"presence-lab/errors"
	"slices"
)

// IHandleRepository is the part of the repository that channel kinds and
// the membership engine depend on.
type IHandleRepository interface {
	Intern(handleType domain.HandleType, name string) (domain.Handle, error)
	Ensure(handleType domain.HandleType, name string) (domain.Handle, error)
	Lookup(handleType domain.HandleType, name string) (domain.Handle, error)
	IsValid(handleType domain.HandleType, handle domain.Handle) bool
	AreValid(handleType domain.HandleType, handles []domain.Handle, allowZero bool) error
	Ref(handleType domain.HandleType, handle domain.Handle) error
	Unref(handleType domain.HandleType, handle domain.Handle) error
	Inspect(handleType domain.HandleType, handle domain.Handle) (string, error)
}

var _ IHandleRepository = (*HandleRepository)(nil)

type dataEntry struct {
	value   any
	destroy func(any)
}

type handleRecord struct {
	name     string
	refCount int
	data     map[any]dataEntry
}

func (r *handleRecord) destroyData() {
	for key, entry := range r.data {
		delete(r.data, key)
		if entry.destroy != nil {
			entry.destroy(entry.value)
		}
	}
}

// namespace holds the records of one dynamic handle type.
// Every value in free is below serial and not live.
type namespace struct {
	names     map[string]domain.Handle
	records   map[domain.Handle]*handleRecord
	serial    domain.Handle
	free      []domain.Handle
	normalize NameNormalizer
}

func newNamespace(normalize NameNormalizer) *namespace {
	return &namespace{
		names:     make(map[string]domain.Handle),
		records:   make(map[domain.Handle]*handleRecord),
		normalize: normalize,
	}
}

// allocate prefers the smallest reclaimed value over a new serial.
func (n *namespace) allocate() domain.Handle {
	if len(n.free) > 0 {
		h := n.free[0]
		n.free = n.free[1:]
		return h
	}
	n.serial++
	return n.serial
}

// reclaim rolls the serial back when the most recent value dies, so the
// free pool only holds holes.
func (n *namespace) reclaim(h domain.Handle) {
	if h != n.serial {
		i, _ := slices.BinarySearch(n.free, h)
		n.free = slices.Insert(n.free, i, h)
		return
	}
	n.serial--
	for len(n.free) > 0 && n.free[len(n.free)-1] == n.serial {
		n.free = n.free[:len(n.free)-1]
		n.serial--
	}
}

type clientKey struct {
	clientID   string
	handleType domain.HandleType
}

// HandleRepository interns names into handles for one session.
// It is not safe for concurrent use: the session serializes every call.
type HandleRepository struct {
	log        *slog.Logger
	tracer     contract.RefTracer
	namespaces map[domain.HandleType]*namespace
	lists      []*handleRecord
	clients    map[clientKey]*HandleSet
}

type Option func(*HandleRepository)

// WithTracer installs a hook called on every ref and unref.
func WithTracer(tracer contract.RefTracer) Option {
	return func(r *HandleRepository) {
		if tracer != nil {
			r.tracer = tracer
		}
	}
}

// WithNormalizer replaces the name validator of a dynamic handle type.
func WithNormalizer(handleType domain.HandleType, normalize NameNormalizer) Option {
	return func(r *HandleRepository) {
		if ns, ok := r.namespaces[handleType]; ok && normalize != nil {
			ns.normalize = normalize
		}
	}
}

// WithMaxNameLength rebuilds the default validators with another limit.
func WithMaxNameLength(maxLength int) Option {
	return func(r *HandleRepository) {
		r.namespaces[domain.Contact].normalize = ContactNormalizer(maxLength)
		r.namespaces[domain.Room].normalize = RoomNormalizer(maxLength)
	}
}

func NewHandleRepository(log *slog.Logger, opts ...Option) *HandleRepository {
	r := &HandleRepository{
		log:    log.With("component", "handle_repository"),
		tracer: noopTracer{},
		namespaces: map[domain.HandleType]*namespace{
			domain.Contact: newNamespace(ContactNormalizer(DefaultMaxNameLength)),
			domain.Room:    newNamespace(RoomNormalizer(DefaultMaxNameLength)),
		},
		clients: make(map[clientKey]*HandleSet),
	}
	for _, name := range domain.ListNames {
		r.lists = append(r.lists, &handleRecord{name: name, refCount: 1, data: make(map[any]dataEntry)})
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func invalidHandle(handleType domain.HandleType, handle domain.Handle) error {
	return &errors.HandleError{Err: errors.ErrInvalidHandle, Type: handleType.String(), Handle: uint32(handle), Index: -1}
}

func invalidType(handleType domain.HandleType) error {
	return fmt.Errorf("%w: %s", errors.ErrInvalidHandleType, handleType)
}

// record returns the live record of a handle, list handles included.
func (r *HandleRepository) record(handleType domain.HandleType, handle domain.Handle) (*handleRecord, error) {
	if !handleType.Valid() {
		return nil, invalidType(handleType)
	}
	if handle == domain.NoHandle {
		return nil, invalidHandle(handleType, handle)
	}
	if handleType == domain.List {
		if int(handle) > len(r.lists) {
			return nil, invalidHandle(handleType, handle)
		}
		return r.lists[handle-1], nil
	}
	rec, ok := r.namespaces[handleType].records[handle]
	if !ok {
		return nil, invalidHandle(handleType, handle)
	}
	return rec, nil
}

func (r *HandleRepository) normalize(handleType domain.HandleType, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty %s name", errors.ErrInvalidArgument, handleType)
	}
	if handleType == domain.List {
		return name, nil
	}
	normalized, err := r.namespaces[handleType].normalize(name)
	if err != nil {
		return "", err
	}
	if normalized == "" {
		return "", fmt.Errorf("%w: %s name %q normalizes to nothing", errors.ErrInvalidArgument, handleType, name)
	}
	return normalized, nil
}

// Normalize returns the name Intern would store for name, without
// creating anything.
func (r *HandleRepository) Normalize(handleType domain.HandleType, name string) (string, error) {
	if !handleType.Valid() {
		return "", invalidType(handleType)
	}
	if handleType == domain.List {
		if _, err := r.Lookup(handleType, name); err != nil {
			return "", err
		}
	}
	return r.normalize(handleType, name)
}

// Intern returns the handle of name, creating a record with no reference
// when the name is new. The first Ref claims such a record; one nobody
// claims stays until Sweep or Close.
func (r *HandleRepository) Intern(handleType domain.HandleType, name string) (domain.Handle, error) {
	if !handleType.Valid() {
		return domain.NoHandle, invalidType(handleType)
	}
	normalized, err := r.normalize(handleType, name)
	if err != nil {
		return domain.NoHandle, err
	}
	if handleType == domain.List {
		i := slices.Index(domain.ListNames, normalized)
		if i < 0 {
			return domain.NoHandle, fmt.Errorf("%w: unknown list %q", errors.ErrInvalidArgument, name)
		}
		return domain.Handle(i + 1), nil
	}

	ns := r.namespaces[handleType]
	if h, ok := ns.names[normalized]; ok {
		return h, nil
	}
	h := ns.allocate()
	ns.names[normalized] = h
	ns.records[h] = &handleRecord{name: normalized, data: make(map[any]dataEntry)}
	r.log.Debug("Handle interned", "type", handleType.String(), "handle", h, "name", normalized)
	return h, nil
}

// Ensure interns name and takes one reference on the result.
func (r *HandleRepository) Ensure(handleType domain.HandleType, name string) (domain.Handle, error) {
	h, err := r.Intern(handleType, name)
	if err != nil {
		return domain.NoHandle, err
	}
	if err = r.Ref(handleType, h); err != nil {
		return domain.NoHandle, err
	}
	return h, nil
}

// Lookup finds the handle of an already interned name.
func (r *HandleRepository) Lookup(handleType domain.HandleType, name string) (domain.Handle, error) {
	if !handleType.Valid() {
		return domain.NoHandle, invalidType(handleType)
	}
	normalized, err := r.normalize(handleType, name)
	if err != nil {
		return domain.NoHandle, err
	}
	if handleType == domain.List {
		return r.Intern(handleType, normalized)
	}
	h, ok := r.namespaces[handleType].names[normalized]
	if !ok {
		return domain.NoHandle, fmt.Errorf("%w: no %s named %q", errors.ErrInvalidHandle, handleType, normalized)
	}
	return h, nil
}

func (r *HandleRepository) IsValid(handleType domain.HandleType, handle domain.Handle) bool {
	_, err := r.record(handleType, handle)
	return err == nil
}

// AreValid checks every handle and reports the first invalid one with its
// position. Zero handles pass only when allowZero is set.
func (r *HandleRepository) AreValid(handleType domain.HandleType, handles []domain.Handle, allowZero bool) error {
	if !handleType.Valid() {
		return invalidType(handleType)
	}
	for i, h := range handles {
		if h == domain.NoHandle && allowZero {
			continue
		}
		if !r.IsValid(handleType, h) {
			return &errors.HandleError{Err: errors.ErrInvalidHandle, Type: handleType.String(), Handle: uint32(h), Index: i}
		}
	}
	return nil
}

// Ref takes one reference. List handles are immortal and never counted.
func (r *HandleRepository) Ref(handleType domain.HandleType, handle domain.Handle) error {
	rec, err := r.record(handleType, handle)
	if err != nil {
		return err
	}
	if handleType == domain.List {
		return nil
	}
	rec.refCount++
	r.tracer.Trace(handle, handleType, contract.RefOpRef, rec.refCount)
	return nil
}

// Unref drops one reference and destroys the record when none is left.
// Dropping a reference nobody holds is a caller bug.
func (r *HandleRepository) Unref(handleType domain.HandleType, handle domain.Handle) error {
	if !handleType.Valid() {
		return invalidType(handleType)
	}
	if handleType == domain.List {
		if _, err := r.record(handleType, handle); err != nil {
			return err
		}
		return nil
	}
	ns := r.namespaces[handleType]
	rec, ok := ns.records[handle]
	if !ok {
		return fmt.Errorf("%w: unref of unknown %s handle %d", errors.ErrInvariantViolation, handleType, handle)
	}
	if rec.refCount == 0 {
		return fmt.Errorf("%w: unref of unreferenced %s handle %d (%q)", errors.ErrInvariantViolation, handleType, handle, rec.name)
	}
	rec.refCount--
	r.tracer.Trace(handle, handleType, contract.RefOpUnref, rec.refCount)
	if rec.refCount > 0 {
		return nil
	}
	r.destroy(handleType, ns, handle, rec)
	return nil
}

func (r *HandleRepository) destroy(handleType domain.HandleType, ns *namespace, handle domain.Handle, rec *handleRecord) {
	delete(ns.records, handle)
	delete(ns.names, rec.name)
	rec.destroyData()
	ns.reclaim(handle)
	r.log.Debug("Handle released", "type", handleType.String(), "handle", handle, "name", rec.name)
}

// Sweep destroys the interned records nobody ever referenced and reports
// how many went.
func (r *HandleRepository) Sweep() int {
	swept := 0
	for handleType, ns := range r.namespaces {
		for handle, rec := range ns.records {
			if rec.refCount == 0 {
				r.destroy(handleType, ns, handle, rec)
				swept++
			}
		}
	}
	return swept
}

func (r *HandleRepository) Inspect(handleType domain.HandleType, handle domain.Handle) (string, error) {
	rec, err := r.record(handleType, handle)
	if err != nil {
		return "", err
	}
	return rec.name, nil
}

// RefCount is diagnostic. Immortal list handles report 1.
func (r *HandleRepository) RefCount(handleType domain.HandleType, handle domain.Handle) (int, error) {
	rec, err := r.record(handleType, handle)
	if err != nil {
		return 0, err
	}
	return rec.refCount, nil
}

// Size counts live records of a type.
func (r *HandleRepository) Size(handleType domain.HandleType) int {
	if handleType == domain.List {
		return len(r.lists)
	}
	ns, ok := r.namespaces[handleType]
	if !ok {
		return 0
	}
	return len(ns.records)
}

// SetData attaches value under key. destroy, if any, runs when the value
// is replaced or the record dies.
func (r *HandleRepository) SetData(handleType domain.HandleType, handle domain.Handle, key, value any, destroy func(any)) error {
	rec, err := r.record(handleType, handle)
	if err != nil {
		return err
	}
	if old, ok := rec.data[key]; ok && old.destroy != nil {
		old.destroy(old.value)
	}
	rec.data[key] = dataEntry{value: value, destroy: destroy}
	return nil
}

func (r *HandleRepository) GetData(handleType domain.HandleType, handle domain.Handle, key any) (any, bool) {
	rec, err := r.record(handleType, handle)
	if err != nil {
		return nil, false
	}
	entry, ok := rec.data[key]
	return entry.value, ok
}

// RemoveData detaches key without running its destroy callback.
func (r *HandleRepository) RemoveData(handleType domain.HandleType, handle domain.Handle, key any) (any, bool) {
	rec, err := r.record(handleType, handle)
	if err != nil {
		return nil, false
	}
	entry, ok := rec.data[key]
	delete(rec.data, key)
	return entry.value, ok
}

// ClientHold records that an external client holds handle. Holding twice
// is the same as holding once.
func (r *HandleRepository) ClientHold(clientID string, handle domain.Handle, handleType domain.HandleType) error {
	if clientID == "" {
		return fmt.Errorf("%w: empty client id", errors.ErrInvalidArgument)
	}
	if !handleType.Valid() {
		return invalidType(handleType)
	}
	key := clientKey{clientID: clientID, handleType: handleType}
	set, ok := r.clients[key]
	if !ok {
		set = NewHandleSet(r, handleType)
	}
	if err := set.Add(handle); err != nil {
		return err
	}
	r.clients[key] = set
	return nil
}

func (r *HandleRepository) ClientRelease(clientID string, handle domain.Handle, handleType domain.HandleType) error {
	if !handleType.Valid() {
		return invalidType(handleType)
	}
	key := clientKey{clientID: clientID, handleType: handleType}
	set, ok := r.clients[key]
	if !ok {
		return fmt.Errorf("%w: client %q holds no %s handles", errors.ErrNotAvailable, clientID, handleType)
	}
	if !set.Remove(handle) {
		return fmt.Errorf("%w: client %q does not hold %s handle %d", errors.ErrNotAvailable, clientID, handleType, handle)
	}
	if set.Size() == 0 {
		delete(r.clients, key)
	}
	return nil
}

// ClientDisconnected releases everything clientID held and returns how
// many references were dropped.
func (r *HandleRepository) ClientDisconnected(clientID string) int {
	released := 0
	for _, handleType := range domain.HandleTypes {
		key := clientKey{clientID: clientID, handleType: handleType}
		set, ok := r.clients[key]
		if !ok {
			continue
		}
		released += set.Size()
		set.Close()
		delete(r.clients, key)
	}
	if released > 0 {
		r.log.Debug("Client handles released", "client", clientID, "references", released)
	}
	return released
}

// Close drops every client hold, sweeps unclaimed records and destroys
// the data of the list records. Handles held elsewhere must be released by
// their holders.
func (r *HandleRepository) Close() {
	for key, set := range r.clients {
		set.Close()
		delete(r.clients, key)
	}
	r.Sweep()
	for _, rec := range r.lists {
		rec.destroyData()
	}
}
