package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/shopspring/decimal"

	"github.com/gyeh/claimline/internal/model"
)

func strPtr(s string) *string { return &s }

func sampleRecords() []model.ProcedureRecord {
	return []model.ProcedureRecord{
		{
			ID:                 1,
			BatchID:            "batch-1",
			ServiceDate:        "3/28/18 0:00",
			SubmittedProcedure: "D0180",
			Quadrant:           strPtr("UR"),
			PlanGroup:          "GRP-1000",
			Subscriber:         "3730189502",
			ProviderNPI:        "1497775530",
			ProviderFees:       decimal.RequireFromString("300.00"),
			AllowedFees:        decimal.RequireFromString("100.00"),
			MemberCoinsurance:  decimal.RequireFromString("0.00"),
			MemberCopay:        decimal.RequireFromString("0.00"),
			NetFee:             decimal.RequireFromString("200.00"),
		},
		{
			ID:                 2,
			BatchID:            "batch-1",
			ServiceDate:        "3/28/18 0:00",
			SubmittedProcedure: "D0210",
			PlanGroup:          "GRP-1000",
			Subscriber:         "3730189502",
			ProviderNPI:        "1497775530",
			ProviderFees:       decimal.RequireFromString("1234.5"),
			AllowedFees:        decimal.RequireFromString("0.005"),
			MemberCoinsurance:  decimal.RequireFromString("-10"),
			MemberCopay:        decimal.RequireFromString("0.1"),
			NetFee:             decimal.RequireFromString("1224.595"),
		},
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "procedures.parquet")
	want := sampleRecords()

	n, err := WriteFile(path, want)
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if n != len(want) {
		t.Fatalf("wrote %d rows, want %d", n, len(want))
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("read %d rows, want %d", len(got), len(want))
	}

	for i := range want {
		w, g := want[i], got[i]
		if g.ID != w.ID || g.BatchID != w.BatchID || g.SubmittedProcedure != w.SubmittedProcedure {
			t.Errorf("row %d: identity mismatch: got %+v", i, g)
		}
		if !g.NetFee.Equal(w.NetFee) {
			t.Errorf("row %d: NetFee = %s, want %s", i, g.NetFee, w.NetFee)
		}
		if !g.AllowedFees.Equal(w.AllowedFees) {
			t.Errorf("row %d: AllowedFees = %s, want %s", i, g.AllowedFees, w.AllowedFees)
		}
		if (g.Quadrant == nil) != (w.Quadrant == nil) {
			t.Errorf("row %d: Quadrant nil mismatch", i)
		} else if g.Quadrant != nil && *g.Quadrant != *w.Quadrant {
			t.Errorf("row %d: Quadrant = %q, want %q", i, *g.Quadrant, *w.Quadrant)
		}
	}
}

func TestFromRecordCents(t *testing.T) {
	recs := sampleRecords()

	row := FromRecord(&recs[0])
	if row.NetFeeCents == nil || *row.NetFeeCents != 20000 {
		t.Errorf("NetFeeCents = %v, want 20000", row.NetFeeCents)
	}
	if row.NetFee != "200" {
		t.Errorf("NetFee = %q, want %q", row.NetFee, "200")
	}

	row = FromRecord(&recs[1])
	if row.NetFeeCents == nil || *row.NetFeeCents != 122460 {
		t.Errorf("NetFeeCents = %v, want 122460", row.NetFeeCents)
	}
}

func TestHugeNetFeeExportsNullCents(t *testing.T) {
	recs := sampleRecords()[:1]
	recs[0].NetFee = decimal.RequireFromString("100000000000000000")

	row := FromRecord(&recs[0])
	if row.NetFeeCents != nil {
		t.Fatalf("NetFeeCents = %d, want null for an amount past int64 cents", *row.NetFeeCents)
	}

	path := filepath.Join(t.TempDir(), "huge.parquet")
	if _, err := WriteFile(path, recs); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(got) != 1 || !got[0].NetFee.Equal(recs[0].NetFee) {
		t.Errorf("NetFee did not survive the round trip: %+v", got)
	}
}

func TestVerify(t *testing.T) {
	path := filepath.Join(t.TempDir(), "procedures.parquet")
	recs := sampleRecords()
	if _, err := WriteFile(path, recs); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := Verify(path, len(recs)); err != nil {
		t.Errorf("Verify: %v", err)
	}
	if err := Verify(path, len(recs)+1); err == nil {
		t.Error("Verify accepted a row count mismatch")
	}
}

func TestWriteFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet")

	n, err := WriteFile(path, nil)
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if n != 0 {
		t.Errorf("wrote %d rows, want 0", n)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("read %d rows, want 0", len(got))
	}
}

func TestToRecordBadAmount(t *testing.T) {
	row := FromRecord(&sampleRecords()[0])
	row.MemberCopay = "ten dollars"

	if _, err := row.ToRecord(); err == nil {
		t.Fatal("expected error for non-numeric amount")
	}
}

type otherRow struct {
	ID   int64  `parquet:"id"`
	Name string `parquet:"name"`
}

func TestReadFileRejectsForeignSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.parquet")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w := parquet.NewGenericWriter[otherRow](f)
	if _, err := w.Write([]otherRow{{ID: 1, Name: "x"}}); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	if _, err := ReadFile(path); err == nil {
		t.Fatal("expected schema validation error")
	}
	if err := Verify(path, 1); err == nil {
		t.Fatal("Verify accepted a foreign file")
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "nope.parquet")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
