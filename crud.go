package vault

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/credvault/credvault/internal/codec"
	"github.com/credvault/credvault/internal/crypto"
	"github.com/credvault/credvault/vaulterr"
)

func (d *Datastore) requireUnlockedLocked() error {
	if d.state != StateUnlocked {
		return vaulterr.New(vaulterr.ReasonLocked, "datastore is locked")
	}
	return nil
}

func (d *Datastore) decodeRecord(blob []byte) (*Record, error) {
	plaintext, err := crypto.Open(string(blob), d.kb.RecordKey)
	if err != nil {
		return nil, vaulterr.Wrap(vaulterr.ReasonCrypto, "decrypting record failed", err)
	}
	var r Record
	if err := codec.DecodeInto(plaintext, &r); err != nil {
		return nil, vaulterr.Wrap(vaulterr.ReasonCrypto, "decoding record failed", err)
	}
	return &r, nil
}

func (d *Datastore) loadRecord(ctx context.Context, id string) (*Record, error) {
	blob, found, err := d.backing.Get(ctx, recordKey(id))
	if err != nil {
		return nil, vaulterr.Wrap(vaulterr.ReasonStore, "reading record failed", err)
	}
	if !found {
		return nil, nil
	}
	return d.decodeRecord(blob)
}

func (d *Datastore) storeRecord(ctx context.Context, r *Record) error {
	canonical, err := codec.Canonical(r)
	if err != nil {
		return vaulterr.Wrap(vaulterr.ReasonCrypto, "canonicalizing record failed", err)
	}
	envelope, err := crypto.Seal(canonical, d.kb.RecordKey)
	if err != nil {
		return vaulterr.Wrap(vaulterr.ReasonCrypto, "encrypting record failed", err)
	}
	if err := d.backing.Put(ctx, recordKey(r.ID), []byte(envelope)); err != nil {
		return vaulterr.Wrap(vaulterr.ReasonStore, "persisting record failed", err)
	}
	return nil
}

// List returns every persisted record keyed by id.
func (d *Datastore) List(ctx context.Context) (map[string]*Record, error) {
	var out map[string]*Record
	var outErr error
	err := d.act.submit(ctx, func() {
		if outErr = d.requireUnlockedLocked(); outErr != nil {
			return
		}
		out = make(map[string]*Record)
		outErr = d.backing.Iterate(ctx, itemPrefix, func(key string, blob []byte) (bool, error) {
			r, decodeErr := d.decodeRecord(blob)
			if decodeErr != nil {
				return false, decodeErr
			}
			out[r.ID] = r.clone()
			return true, nil
		})
	})
	if err != nil {
		return nil, err
	}
	if outErr != nil {
		return nil, outErr
	}
	return out, nil
}

// Get returns the record with id, or nil if no such record exists.
func (d *Datastore) Get(ctx context.Context, id string) (*Record, error) {
	var out *Record
	var outErr error
	err := d.act.submit(ctx, func() {
		if outErr = d.requireUnlockedLocked(); outErr != nil {
			return
		}
		r, loadErr := d.loadRecord(ctx, id)
		if loadErr != nil {
			outErr = loadErr
			return
		}
		out = r.clone()
	})
	if err != nil {
		return nil, err
	}
	if outErr != nil {
		return nil, outErr
	}
	return out, nil
}

// Add creates a new record from nr, assigning its id, created and
// modified timestamps, and an empty history, then persists it and
// notifies RecordMetric with method "added".
func (d *Datastore) Add(ctx context.Context, nr NewRecord) (*Record, error) {
	var out *Record
	var outErr error
	err := d.act.submit(ctx, func() {
		if outErr = d.requireUnlockedLocked(); outErr != nil {
			return
		}
		if nr.Title == "" {
			outErr = vaulterr.New(vaulterr.ReasonInvalid, "title is required")
			return
		}
		if nr.Entry == nil || nr.Entry["kind"] == nil {
			outErr = vaulterr.New(vaulterr.ReasonInvalid, "entry.kind is required")
			return
		}

		now := time.Now().UTC()
		r := &Record{
			ID:       uuid.NewString(),
			Title:    nr.Title,
			Entry:    cloneMap(nr.Entry),
			Origins:  append([]string(nil), nr.Origins...),
			Tags:     append([]string(nil), nr.Tags...),
			Created:  now,
			Modified: now,
		}

		if storeErr := d.storeRecord(ctx, r); storeErr != nil {
			outErr = storeErr
			return
		}

		out = r.clone()
		d.logger.Debug("vault: added", "id", r.ID)
		if d.metric != nil {
			d.metric("added", r.ID, nil)
		}
	})
	if err != nil {
		return nil, err
	}
	if outErr != nil {
		return nil, outErr
	}
	return out, nil
}

// RecordUpdate is the caller-supplied shape for Update: ID identifies
// the existing record, and every other field replaces the corresponding
// field on the stored record wholesale.
type RecordUpdate struct {
	ID       string
	Title    string
	Entry    map[string]interface{}
	Origins  []string
	Tags     []string
	LastUsed *time.Time
}

// Update replaces the editable fields of the record identified by
// ru.ID, diffs the previous version against the new one, prepends a
// history entry if Entry changed, and notifies RecordMetric with
// method "updated" and the dotted-path field list of what changed.
func (d *Datastore) Update(ctx context.Context, ru RecordUpdate) (*Record, error) {
	var out *Record
	var outErr error
	err := d.act.submit(ctx, func() {
		if outErr = d.requireUnlockedLocked(); outErr != nil {
			return
		}

		existing, loadErr := d.loadRecord(ctx, ru.ID)
		if loadErr != nil {
			outErr = loadErr
			return
		}
		if existing == nil {
			outErr = vaulterr.New(vaulterr.ReasonMissing, "record not found")
			return
		}

		updated := existing.clone()
		updated.Title = ru.Title
		updated.Entry = cloneMap(ru.Entry)
		updated.Origins = append([]string(nil), ru.Origins...)
		updated.Tags = append([]string(nil), ru.Tags...)
		updated.LastUsed = ru.LastUsed

		fieldPatch := codec.Diff(existing.diffableFields(), updated.diffableFields())
		fieldList := codec.FieldList(fieldPatch, updated.Entry)

		// The history journal only ever reverses entry, per the data model:
		// a title/origins/tags-only edit still bumps Modified but records no
		// history entry.
		entryPatch := codec.Diff(existing.Entry, updated.Entry)

		updated.Modified = time.Now().UTC()
		if !codec.IsEmpty(entryPatch) {
			entry := HistoryEntry{Created: updated.Modified, Patch: entryPatch}
			updated.History = append([]HistoryEntry{entry}, existing.History...)
		}

		if storeErr := d.storeRecord(ctx, updated); storeErr != nil {
			outErr = storeErr
			return
		}

		out = updated.clone()
		d.logger.Debug("vault: updated", "id", updated.ID, "fields", fieldList)
		if d.metric != nil {
			d.metric("updated", updated.ID, nilIfEmpty(fieldList))
		}
	})
	if err != nil {
		return nil, err
	}
	if outErr != nil {
		return nil, outErr
	}
	return out, nil
}

// Remove deletes the record identified by id and returns the record as
// it existed immediately before deletion, or nil if no such record
// exists. Notifies RecordMetric with method "deleted" only when a
// record was actually removed.
func (d *Datastore) Remove(ctx context.Context, id string) (*Record, error) {
	var out *Record
	var outErr error
	err := d.act.submit(ctx, func() {
		if outErr = d.requireUnlockedLocked(); outErr != nil {
			return
		}

		existing, loadErr := d.loadRecord(ctx, id)
		if loadErr != nil {
			outErr = loadErr
			return
		}
		if existing == nil {
			return
		}

		if delErr := d.backing.Delete(ctx, recordKey(id)); delErr != nil {
			outErr = vaulterr.Wrap(vaulterr.ReasonStore, "deleting record failed", delErr)
			return
		}

		out = existing.clone()
		d.logger.Debug("vault: deleted", "id", id)
		if d.metric != nil {
			d.metric("deleted", id, nil)
		}
	})
	if err != nil {
		return nil, err
	}
	if outErr != nil {
		return nil, outErr
	}
	return out, nil
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
