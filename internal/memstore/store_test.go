package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/gyeh/claimline/internal/model"
)

func rec(batch, npi, net string) model.ProcedureRecord {
	return model.ProcedureRecord{
		BatchID:     batch,
		ProviderNPI: npi,
		NetFee:      decimal.RequireFromString(net),
	}
}

func TestInsertManyAssignsIDs(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.InsertMany(ctx, []model.ProcedureRecord{rec("a", "1", "1"), rec("a", "2", "2")}); err != nil {
		t.Fatal(err)
	}
	if err := s.InsertMany(ctx, []model.ProcedureRecord{rec("b", "3", "3")}); err != nil {
		t.Fatal(err)
	}

	all, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	for i, r := range all {
		if r.ID != int64(i+1) {
			t.Errorf("record %d has id %d", i, r.ID)
		}
	}
	if all[2].BatchID != "b" {
		t.Errorf("BatchID = %q, want b", all[2].BatchID)
	}
}

func TestInsertManyCanceledContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.InsertMany(ctx, []model.ProcedureRecord{rec("a", "1", "1")}); err == nil {
		t.Fatal("expected context error")
	}
	all, _ := s.List(context.Background())
	if len(all) != 0 {
		t.Errorf("len = %d, want 0", len(all))
	}
}

func TestReplaceKeepsBatchID(t *testing.T) {
	s := New()
	ctx := context.Background()
	_ = s.InsertMany(ctx, []model.ProcedureRecord{rec("orig", "1", "10")})

	upd := rec("other", "9", "99")
	upd.ID = 1
	if err := s.Replace(ctx, &upd); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	got, err := s.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.BatchID != "orig" {
		t.Errorf("BatchID = %q, want orig", got.BatchID)
	}
	if got.ProviderNPI != "9" || !got.NetFee.Equal(decimal.NewFromInt(99)) {
		t.Errorf("record not replaced: %+v", got)
	}
}

func TestNotFound(t *testing.T) {
	s := New()
	ctx := context.Background()
	_ = s.InsertMany(ctx, []model.ProcedureRecord{rec("a", "1", "1")})

	if _, err := s.Get(ctx, 2); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("Get err = %v", err)
	}
	missing := rec("a", "1", "1")
	missing.ID = 5
	if err := s.Replace(ctx, &missing); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("Replace err = %v", err)
	}
	if err := s.Delete(ctx, 5); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("Delete err = %v", err)
	}

	if err := s.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, 1); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("second Delete err = %v", err)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	s := New()
	ctx := context.Background()
	q := "UR"
	r := rec("a", "1", "1")
	r.Quadrant = &q
	_ = s.InsertMany(ctx, []model.ProcedureRecord{r})

	got, _ := s.Get(ctx, 1)
	*got.Quadrant = "LL"

	again, _ := s.Get(ctx, 1)
	if *again.Quadrant != "UR" {
		t.Errorf("stored quadrant mutated to %q", *again.Quadrant)
	}
}

func TestTopProviders(t *testing.T) {
	s := New()
	ctx := context.Background()
	_ = s.InsertMany(ctx, []model.ProcedureRecord{
		rec("a", "tie-first", "50"),
		rec("a", "big", "100"),
		rec("a", "tie-second", "50"),
		rec("a", "big", "25.5"),
		rec("a", "small", "1"),
	})

	top, err := s.TopProviders(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []struct {
		npi   string
		total string
	}{
		{"big", "125.5"},
		{"tie-first", "50"},
		{"tie-second", "50"},
	}
	if len(top) != len(want) {
		t.Fatalf("len = %d, want %d", len(top), len(want))
	}
	for i, w := range want {
		if top[i].ProviderNPI != w.npi || !top[i].TotalNetFee.Equal(decimal.RequireFromString(w.total)) {
			t.Errorf("top[%d] = %s %s, want %s %s", i, top[i].ProviderNPI, top[i].TotalNetFee, w.npi, w.total)
		}
	}
}
