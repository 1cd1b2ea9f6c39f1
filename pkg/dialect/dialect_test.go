package dialect

import "testing"

func TestLookup(t *testing.T) {
	for _, name := range []string{"postgres", "snowflake", "bigquery", "ansi", "POSTGRES"} {
		if _, ok := Lookup(name); !ok {
			t.Errorf("expected dialect %q to be registered", name)
		}
	}
	if _, ok := Lookup("redshift"); ok {
		t.Error("expected redshift to be unregistered")
	}
}

func TestClassifyFunction(t *testing.T) {
	if Postgres.ClassifyFunction("sum") != ClassAggregate {
		t.Error("expected sum to classify as aggregate")
	}
	if Postgres.ClassifyFunction("now") != ClassGenerator {
		t.Error("expected now to classify as generator")
	}
	if Postgres.ClassifyFunction("row_number") != ClassWindow {
		t.Error("expected row_number to classify as window")
	}
	if Postgres.ClassifyFunction("upper") != ClassScalar {
		t.Error("expected upper to classify as scalar")
	}
}

func TestNormalizeNameCase(t *testing.T) {
	if Postgres.NormalizeName("Foo") != "foo" {
		t.Error("expected postgres to fold to lowercase")
	}
	if Snowflake.NormalizeName("foo") != "FOO" {
		t.Error("expected snowflake to fold to uppercase")
	}
}

func TestIsReserved(t *testing.T) {
	if !Postgres.IsReserved("SELECT") {
		t.Error("expected SELECT to be reserved")
	}
	if Postgres.IsReserved("my_column") {
		t.Error("expected my_column not to be reserved")
	}
}
