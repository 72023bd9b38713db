package ddl

import (
	"testing"

	gddl "github.com/dylantanyz/zoomcamp2024/internal/ddl"
)

func TestBuildCreateTableSQL(t *testing.T) {
	t.Parallel()

	def, _ := gddl.FromKinds("dbo.yellow_taxi_data",
		[]string{"VendorID", "tpep_dropoff_datetime", "total_amount", "store_and_fwd_flag"},
		[]gddl.Kind{gddl.KindInt, gddl.KindTimestamp, gddl.KindFloat, gddl.KindText})

	got, err := BuildCreateTableSQL(def)
	if err != nil {
		t.Fatalf("BuildCreateTableSQL: %v", err)
	}
	want := "IF OBJECT_ID(N'[dbo].[yellow_taxi_data]', N'U') IS NULL\nBEGIN\n" +
		"  CREATE TABLE [dbo].[yellow_taxi_data] (\n" +
		"    [VendorID] BIGINT,\n" +
		"    [tpep_dropoff_datetime] DATETIME2,\n" +
		"    [total_amount] FLOAT,\n" +
		"    [store_and_fwd_flag] NVARCHAR(MAX)\n" +
		"  );\nEND;"
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuildCreateTableSQL_EscapesQuoteInGuard(t *testing.T) {
	t.Parallel()

	got, err := BuildCreateTableSQL(gddl.TableDef{FQN: "o'brien", Columns: []gddl.ColumnDef{{Name: "a", Kind: gddl.KindInt, Nullable: true}}})
	if err != nil {
		t.Fatal(err)
	}
	want := "IF OBJECT_ID(N'[o''brien]', N'U') IS NULL\nBEGIN\n  CREATE TABLE [o'brien] (\n    [a] BIGINT\n  );\nEND;"
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestQuoteIdent(t *testing.T) {
	t.Parallel()

	if got := QuoteIdent("weird]id"); got != "[weird]]id]" {
		t.Fatalf("QuoteIdent = %s", got)
	}
}
