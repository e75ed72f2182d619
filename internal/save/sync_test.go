package save

import (
	"context"
	"testing"

	"github.com/hanafuda/koikoi-go/internal/stats"
)

// fakeRemote is an in-memory RemoteAdapter.
type fakeRemote struct {
	saves    map[string]GameSaveRecord
	profiles map[string]*stats.Profile
	pushes   int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		saves:    map[string]GameSaveRecord{},
		profiles: map[string]*stats.Profile{},
	}
}

func (f *fakeRemote) PushSave(_ context.Context, record *GameSaveRecord) error {
	f.saves[record.ID] = *record
	f.pushes++
	return nil
}

func (f *fakeRemote) PullSaves(_ context.Context, uid string) ([]GameSaveRecord, error) {
	var out []GameSaveRecord
	for _, record := range f.saves {
		if record.UID == uid {
			out = append(out, record)
		}
	}
	return out, nil
}

func (f *fakeRemote) DeleteSave(_ context.Context, uid, saveKey string) error {
	delete(f.saves, RecordID(uid, saveKey))
	return nil
}

func (f *fakeRemote) PushProfile(_ context.Context, profile *stats.Profile) error {
	f.profiles[profile.UID] = profile
	return nil
}

func (f *fakeRemote) PullProfile(_ context.Context, uid string) (*stats.Profile, error) {
	return f.profiles[uid], nil
}

func record(uid, saveKey string, timestamp int64, gameID string) *GameSaveRecord {
	return &GameSaveRecord{
		ID:        RecordID(uid, saveKey),
		UID:       uid,
		SaveKey:   saveKey,
		GameState: "{}",
		Timestamp: timestamp,
		GameID:    gameID,
		Mode:      ModeSingle,
	}
}

func TestPullNewerRemoteWins(t *testing.T) {
	local := NewMemoryStore()
	remote := newFakeRemote()
	syncer := NewSyncer(local, remote, "", testLogger())

	local.PutSave(record("u1", KeySingle, 100, "old-game"))
	remote.saves[RecordID("u1", KeySingle)] = *record("u1", KeySingle, 200, "new-game")

	if err := syncer.Pull(context.Background(), "u1"); err != nil {
		t.Fatalf("Pull: %v", err)
	}
	got, _ := local.GetSave("u1", KeySingle)
	if got.GameID != "new-game" {
		t.Errorf("local slot holds %q, want the newer remote copy", got.GameID)
	}
}

func TestPullNewerLocalPushedBack(t *testing.T) {
	local := NewMemoryStore()
	remote := newFakeRemote()
	syncer := NewSyncer(local, remote, "", testLogger())

	local.PutSave(record("u1", KeySingle, 300, "local-game"))
	remote.saves[RecordID("u1", KeySingle)] = *record("u1", KeySingle, 200, "stale-game")

	if err := syncer.Pull(context.Background(), "u1"); err != nil {
		t.Fatalf("Pull: %v", err)
	}
	got, _ := local.GetSave("u1", KeySingle)
	if got.GameID != "local-game" {
		t.Errorf("newer local slot replaced by %q", got.GameID)
	}
	if remote.saves[RecordID("u1", KeySingle)].GameID != "local-game" {
		t.Error("newer local slot not pushed to the remote")
	}
}

func TestPullUploadsLocalOnlySlots(t *testing.T) {
	local := NewMemoryStore()
	remote := newFakeRemote()
	syncer := NewSyncer(local, remote, "", testLogger())

	local.PutSave(record("u1", KeySingle, 100, "solo-game"))

	if err := syncer.Pull(context.Background(), "u1"); err != nil {
		t.Fatalf("Pull: %v", err)
	}
	if _, ok := remote.saves[RecordID("u1", KeySingle)]; !ok {
		t.Error("local-only slot never reached the remote")
	}
}

func TestPullMergesProfiles(t *testing.T) {
	local := NewMemoryStore()
	remote := newFakeRemote()
	syncer := NewSyncer(local, remote, stats.MergeFields, testLogger())

	localProfile := stats.NewProfile("u1", "local")
	localProfile.Record.Coins = 900
	localProfile.Stats.Increment(stats.KeyTotalRounds, 3)
	local.PutProfile(localProfile)

	remoteProfile := stats.NewProfile("u1", "remote")
	remoteProfile.Record.Win = 4
	remoteProfile.Stats.Increment(stats.KeyTotalRounds, 2)
	remote.profiles["u1"] = remoteProfile

	if err := syncer.Pull(context.Background(), "u1"); err != nil {
		t.Fatalf("Pull: %v", err)
	}
	merged, _ := local.GetProfile("u1")
	if merged.Record.Coins != 900 || merged.Record.Win != 4 {
		t.Errorf("merged record = %+v", merged.Record)
	}
	if merged.Stats.Counters[stats.KeyTotalRounds] != 5 {
		t.Errorf("merged rounds = %d, want 5", merged.Stats.Counters[stats.KeyTotalRounds])
	}
	if merged.Stats.Meta.LastSyncAt == "" {
		t.Error("sync not timestamped on the merged stats")
	}
	if remote.profiles["u1"].Record.Coins != 900 {
		t.Error("merged profile not pushed back to the remote")
	}
}

func TestPushRefusesGuests(t *testing.T) {
	local := NewMemoryStore()
	remote := newFakeRemote()
	syncer := NewSyncer(local, remote, "", testLogger())

	guest := stats.NewGuestProfile()
	local.PutProfile(guest)
	local.PutSave(record(guest.UID, KeySingle, 100, "guest-game"))

	if err := syncer.Push(context.Background(), guest.UID); err == nil {
		t.Error("guest profile synced to the remote")
	}
	if remote.pushes != 0 {
		t.Error("guest data reached the remote")
	}
}

func TestTransferGuest(t *testing.T) {
	local := NewMemoryStore()
	remote := newFakeRemote()
	syncer := NewSyncer(local, remote, "", testLogger())

	guest := stats.NewGuestProfile()
	guest.Record.Coins = 800
	guest.Stats.Increment(stats.KeyTotalRounds, 6)
	local.PutProfile(guest)
	local.PutSave(record(guest.UID, KeySingle, 100, "guest-game"))

	account := stats.NewProfile("acct-1", "signed-in")
	account.Stats.Increment(stats.KeyTotalRounds, 2)
	local.PutProfile(account)

	if err := syncer.TransferGuest(context.Background(), guest.UID, "acct-1"); err != nil {
		t.Fatalf("TransferGuest: %v", err)
	}

	moved, _ := local.GetSave("acct-1", KeySingle)
	if moved == nil || moved.GameID != "guest-game" {
		t.Fatal("guest save not re-keyed to the account")
	}
	if leftover, _ := local.GetSave(guest.UID, KeySingle); leftover != nil {
		t.Error("guest slot not removed after transfer")
	}

	merged, _ := local.GetProfile("acct-1")
	if merged.IsGuest {
		t.Error("transferred profile still flagged as guest")
	}
	if merged.Record.Coins != 800 {
		t.Errorf("coins = %d, want the guest's higher balance", merged.Record.Coins)
	}
	if merged.Stats.Counters[stats.KeyTotalRounds] != 8 {
		t.Errorf("merged rounds = %d, want 8", merged.Stats.Counters[stats.KeyTotalRounds])
	}
	if _, ok := remote.saves[RecordID("acct-1", KeySingle)]; !ok {
		t.Error("transferred save not pushed to the remote")
	}
}

func TestTransferGuestRejectsBadArgs(t *testing.T) {
	syncer := NewSyncer(NewMemoryStore(), newFakeRemote(), "", testLogger())
	ctx := context.Background()
	if err := syncer.TransferGuest(ctx, "", "acct"); err == nil {
		t.Error("empty guest uid accepted")
	}
	if err := syncer.TransferGuest(ctx, "same", "same"); err == nil {
		t.Error("self transfer accepted")
	}
}
