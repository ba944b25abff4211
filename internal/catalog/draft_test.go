package catalog

import (
	"errors"
	"testing"

	"github.com/bobby0007/internal-CRM/pkg/models"
)

func TestDraftStoreMutateWithoutFetch(t *testing.T) {
	store := NewDraftStore()
	key := Key{AID: "APP1", Channel: "OTP", CommunicationMode: "SMS"}

	_, err := store.Mutate(key, func(d *Draft) error { return nil })
	if !errors.Is(err, ErrNoDraft) {
		t.Fatalf("expected ErrNoDraft, got %v", err)
	}
}

func TestDraftStorePutReplacesDraft(t *testing.T) {
	store := NewDraftStore()
	key := Key{AID: "APP1", Channel: "OTP", CommunicationMode: "SMS"}

	store.Put(key, models.TemplateCatalog{
		LoadBalanceTemplates: map[string][]models.TemplateInfo{
			"91": {{TemplateCode: "T1", TrafficSplit: 100}},
		},
	})

	view, err := store.Mutate(key, func(d *Draft) error {
		return AddTemplate(&d.Catalog, "91", models.TemplateInfo{TemplateCode: "T2", TrafficSplit: 50})
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Buckets[0].Templates) != 2 {
		t.Fatalf("expected 2 templates, got %d", len(view.Buckets[0].Templates))
	}

	// A fresh fetch discards staged edits.
	view = store.Put(key, models.TemplateCatalog{})
	if len(view.Buckets) != 0 {
		t.Fatalf("expected empty catalog after re-fetch, got %d buckets", len(view.Buckets))
	}
}

func TestSnapshotIsDetachedFromLiveDraft(t *testing.T) {
	store := NewDraftStore()
	key := Key{AID: "APP1", Channel: "OTP", CommunicationMode: "SMS"}

	store.Put(key, models.TemplateCatalog{
		LoadBalanceTemplates: map[string][]models.TemplateInfo{
			"91": {{TemplateCode: "T1", TrafficSplit: 100}},
		},
	})

	snapshot, err := store.Snapshot(key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Edits after the snapshot must not leak into it: its map and slices
	// are read concurrently during the save commit.
	if _, err := store.Mutate(key, func(d *Draft) error {
		if err := AddBucket(&d.Catalog, "44"); err != nil {
			return err
		}
		return EditTemplate(&d.Catalog, "91", 0, models.TemplateInfo{TemplateCode: "T1", TrafficSplit: 50})
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(snapshot.Catalog.LoadBalanceTemplates) != 1 {
		t.Fatalf("bucket added after snapshot leaked in: %+v", snapshot.Catalog.LoadBalanceTemplates)
	}
	if snapshot.Catalog.LoadBalanceTemplates["91"][0].TrafficSplit != 100 {
		t.Fatalf("edit after snapshot leaked in: %+v", snapshot.Catalog.LoadBalanceTemplates["91"])
	}
}

func TestDraftStoreKeysAreIndependent(t *testing.T) {
	store := NewDraftStore()
	sms := Key{AID: "APP1", Channel: "OTP", CommunicationMode: "SMS"}
	wa := Key{AID: "APP1", Channel: "OTP", CommunicationMode: "WHATSAPP"}

	store.Put(sms, models.TemplateCatalog{
		LoadBalanceTemplates: map[string][]models.TemplateInfo{
			"91": {{TemplateCode: "S1", TrafficSplit: 100}},
		},
	})

	if _, err := store.View(wa); !errors.Is(err, ErrNoDraft) {
		t.Fatalf("expected ErrNoDraft for separate key, got %v", err)
	}

	snapshot, err := store.Snapshot(sms)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.Catalog.LoadBalanceTemplates["91"][0].TemplateCode != "S1" {
		t.Fatalf("unexpected snapshot: %+v", snapshot.Catalog)
	}
}
