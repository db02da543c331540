package service_test

import (
	"testing"

	"github.com/zzanghsi8873/bplog/internal/service"
)

func TestConfigSetGetList(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	if _, ok, err := service.GetConfig(db, service.ConfigStoreBackend); err != nil || ok {
		t.Fatalf("expected missing config, got ok=%v err=%v", ok, err)
	}
	if err := service.SetConfig(db, "Store_Backend", " memory "); err != nil {
		t.Fatalf("set config: %v", err)
	}
	v, ok, err := service.GetConfig(db, service.ConfigStoreBackend)
	if err != nil || !ok || v != "memory" {
		t.Fatalf("expected memory, got %q ok=%v err=%v", v, ok, err)
	}
	all, err := service.ListConfig(db)
	if err != nil {
		t.Fatalf("list config: %v", err)
	}
	if all[service.ConfigStoreBackend] != "memory" {
		t.Fatalf("unexpected config map %+v", all)
	}
	if err := service.SetConfig(db, " ", "x"); err == nil {
		t.Fatalf("expected empty key to fail")
	}
}

func TestEnsureProfileUserIsStable(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	first, created, err := service.EnsureProfileUser(db)
	if err != nil {
		t.Fatalf("ensure profile user: %v", err)
	}
	if !created || len(first) != 36 {
		t.Fatalf("expected new uuid, got %q created=%v", first, created)
	}
	second, created, err := service.EnsureProfileUser(db)
	if err != nil {
		t.Fatalf("ensure profile user again: %v", err)
	}
	if created || second != first {
		t.Fatalf("expected stable user id, got %q created=%v", second, created)
	}
}
