package save

import (
	"context"
	"fmt"
	"log"

	"github.com/hanafuda/koikoi-go/internal/stats"
)

// RemoteAdapter is the backend side of save sync. Implementations
// wrap whatever service hosts the account data.
type RemoteAdapter interface {
	PushSave(ctx context.Context, record *GameSaveRecord) error
	PullSaves(ctx context.Context, uid string) ([]GameSaveRecord, error)
	DeleteSave(ctx context.Context, uid, saveKey string) error
	PushProfile(ctx context.Context, profile *stats.Profile) error
	PullProfile(ctx context.Context, uid string) (*stats.Profile, error)
}

// Syncer reconciles the local store with a remote backend.
type Syncer struct {
	local    LocalStore
	remote   RemoteAdapter
	strategy stats.ConflictStrategy
	logger   *log.Logger
}

// NewSyncer builds a syncer. An empty strategy defaults to
// merge-fields so neither side loses progress.
func NewSyncer(local LocalStore, remote RemoteAdapter, strategy stats.ConflictStrategy, logger *log.Logger) *Syncer {
	if strategy == "" {
		strategy = stats.MergeFields
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Syncer{local: local, remote: remote, strategy: strategy, logger: logger}
}

// Push uploads every local save slot and the profile for a player.
// Guest accounts stay local only.
func (s *Syncer) Push(ctx context.Context, uid string) error {
	profile, err := s.local.GetProfile(uid)
	if err != nil {
		return fmt.Errorf("save: sync push: %w", err)
	}
	if profile != nil && profile.IsGuest {
		return fmt.Errorf("save: guest profiles do not sync")
	}

	records, err := s.local.ListSaves(uid)
	if err != nil {
		return fmt.Errorf("save: sync push: %w", err)
	}
	for i := range records {
		if err := s.remote.PushSave(ctx, &records[i]); err != nil {
			return fmt.Errorf("save: push slot %s: %w", records[i].SaveKey, err)
		}
	}
	if profile != nil {
		if err := s.remote.PushProfile(ctx, profile); err != nil {
			return fmt.Errorf("save: push profile: %w", err)
		}
	}
	return nil
}

// Pull reconciles remote saves into the local store. Per save key the
// newer timestamp wins: a newer remote copy replaces the local slot,
// a newer local copy is pushed back instead.
func (s *Syncer) Pull(ctx context.Context, uid string) error {
	remoteRecords, err := s.remote.PullSaves(ctx, uid)
	if err != nil {
		return fmt.Errorf("save: sync pull: %w", err)
	}
	seen := make(map[string]bool, len(remoteRecords))
	for i := range remoteRecords {
		remote := &remoteRecords[i]
		seen[remote.SaveKey] = true
		local, err := s.local.GetSave(uid, remote.SaveKey)
		if err != nil {
			return fmt.Errorf("save: sync pull: %w", err)
		}
		switch {
		case local == nil || remote.Timestamp > local.Timestamp:
			if err := s.local.PutSave(remote); err != nil {
				return fmt.Errorf("save: sync pull: %w", err)
			}
		case local.Timestamp > remote.Timestamp:
			if err := s.remote.PushSave(ctx, local); err != nil {
				return fmt.Errorf("save: push newer slot %s: %w", local.SaveKey, err)
			}
		}
	}

	// Local-only slots the remote never saw go up too.
	locals, err := s.local.ListSaves(uid)
	if err != nil {
		return fmt.Errorf("save: sync pull: %w", err)
	}
	for i := range locals {
		if seen[locals[i].SaveKey] {
			continue
		}
		if err := s.remote.PushSave(ctx, &locals[i]); err != nil {
			return fmt.Errorf("save: push slot %s: %w", locals[i].SaveKey, err)
		}
	}
	return s.pullProfile(ctx, uid)
}

func (s *Syncer) pullProfile(ctx context.Context, uid string) error {
	remote, err := s.remote.PullProfile(ctx, uid)
	if err != nil {
		return fmt.Errorf("save: pull profile: %w", err)
	}
	local, err := s.local.GetProfile(uid)
	if err != nil {
		return fmt.Errorf("save: pull profile: %w", err)
	}
	if remote == nil && local == nil {
		return nil
	}
	resolved := stats.ResolveConflict(local, remote, s.strategy)
	if resolved.Stats != nil {
		resolved.Stats.MarkSynced()
	}
	if err := s.local.PutProfile(resolved); err != nil {
		return fmt.Errorf("save: store resolved profile: %w", err)
	}
	return s.remote.PushProfile(ctx, resolved)
}

// TransferGuest moves a guest's local saves and profile onto a signed
// in account and uploads the result. Guest slots are re-keyed to the
// account uid; the guest profile merges into the account profile so
// coins and stats survive the sign-in.
func (s *Syncer) TransferGuest(ctx context.Context, guestUID, accountUID string) error {
	if guestUID == "" || accountUID == "" || guestUID == accountUID {
		return fmt.Errorf("save: invalid guest transfer %q -> %q", guestUID, accountUID)
	}
	records, err := s.local.ListSaves(guestUID)
	if err != nil {
		return fmt.Errorf("save: guest transfer: %w", err)
	}
	for i := range records {
		record := records[i]
		record.UID = accountUID
		record.ID = RecordID(accountUID, record.SaveKey)
		if err := s.local.PutSave(&record); err != nil {
			return fmt.Errorf("save: guest transfer slot %s: %w", record.SaveKey, err)
		}
		if err := s.local.DeleteSave(guestUID, record.SaveKey); err != nil {
			return fmt.Errorf("save: guest transfer cleanup: %w", err)
		}
	}

	guest, err := s.local.GetProfile(guestUID)
	if err != nil {
		return fmt.Errorf("save: guest transfer: %w", err)
	}
	if guest != nil {
		account, err := s.local.GetProfile(accountUID)
		if err != nil {
			return fmt.Errorf("save: guest transfer: %w", err)
		}
		migrated := *guest
		migrated.UID = accountUID
		migrated.IsGuest = false
		migrated.Flags.TransferredGuest = true
		resolved := stats.ResolveConflict(account, &migrated, stats.MergeFields)
		resolved.UID = accountUID
		resolved.IsGuest = false
		if err := s.local.PutProfile(resolved); err != nil {
			return fmt.Errorf("save: guest transfer profile: %w", err)
		}
	}
	return s.Push(ctx, accountUID)
}
