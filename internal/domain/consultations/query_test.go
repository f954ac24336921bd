package consultations

import (
	"testing"
	"time"

	"consultation-registry/internal/domain/patients"
)

func record(id, patientID int, nom, prenom, date string) Consultation {
	return Consultation{
		ID:               id,
		Patient:          patients.Patient{ID: patientID, Nom: nom, Prenom: prenom},
		DateConsultation: date,
	}
}

func idsOf(records []Consultation) map[int]bool {
	out := make(map[int]bool, len(records))
	for _, c := range records {
		out[c.ID] = true
	}
	return out
}

func TestLatestByPatient_KeepsMostRecentPerPatient(t *testing.T) {
	records := []Consultation{
		record(1, 7, "Ben Ali", "Samia", "2024-01-01"),
		record(2, 9, "Smith", "John", "2024-02-01"),
		record(3, 7, "Ben Ali", "Samia", "2024-03-15"),
	}

	out := LatestByPatient(records)
	if len(out) != 2 {
		t.Fatalf("expected 2 rows (one per patient), got %d", len(out))
	}

	ids := idsOf(out)
	if !ids[3] || !ids[2] {
		t.Fatalf("expected consultations 3 y 2, got %#v", ids)
	}
}

func TestLatestByPatient_TieBreaksByHigherID(t *testing.T) {
	records := []Consultation{
		record(10, 5, "Dupont", "Marie", "2024-06-01"),
		record(11, 5, "Dupont", "Marie", "2024-06-01"),
	}

	out := LatestByPatient(records)
	if len(out) != 1 {
		t.Fatalf("expected 1 row, got %d", len(out))
	}
	if out[0].ID != 11 {
		t.Fatalf("expected id 11 to win the same-day tie, got %d", out[0].ID)
	}
}

func TestLatestByPatient_MalformedDateNeverDisplacesValid(t *testing.T) {
	records := []Consultation{
		record(20, 3, "Karim", "Leila", "not-a-date"),
		record(21, 3, "Karim", "Leila", "2023-01-01"),
	}

	out := LatestByPatient(records)
	if len(out) != 1 || out[0].ID != 21 {
		t.Fatalf("expected valid-date record 21 to win, got %#v", out)
	}
}

func TestLatestByPatient_MalformedDateSurvivesIfAlone(t *testing.T) {
	records := []Consultation{
		record(30, 4, "Haddad", "Nour", ""),
	}

	out := LatestByPatient(records)
	if len(out) != 1 || out[0].ID != 30 {
		t.Fatalf("expected lone malformed-date record to remain, got %#v", out)
	}
}

func TestLatestByPatient_Idempotent(t *testing.T) {
	records := []Consultation{
		record(1, 7, "Ben Ali", "Samia", "2024-01-01"),
		record(2, 9, "Smith", "John", "2024-02-01"),
		record(3, 7, "Ben Ali", "Samia", "2024-03-15"),
	}

	once := LatestByPatient(records)
	twice := LatestByPatient(once)

	if len(once) != len(twice) {
		t.Fatalf("expected idempotent reduction: %d vs %d", len(once), len(twice))
	}
	a, b := idsOf(once), idsOf(twice)
	for id := range a {
		if !b[id] {
			t.Fatalf("id %d lost on second reduction", id)
		}
	}
}

func TestFilter_EmptyCriteriaIsIdentity(t *testing.T) {
	records := []Consultation{
		record(1, 7, "Ben Ali", "Samia", "2024-01-01"),
		record(2, 9, "Smith", "John", "2024-02-01"),
	}

	out := Filter(records, Criteria{})
	if len(out) != len(records) {
		t.Fatalf("expected all records back, got %d", len(out))
	}
	for i := range records {
		if out[i].ID != records[i].ID {
			t.Fatalf("expected original order preserved at %d", i)
		}
	}
}

func TestFilter_NomSubstringCaseInsensitive(t *testing.T) {
	records := []Consultation{
		record(1, 7, "Ben Ali", "Samia", "2024-01-01"),
		record(2, 9, "Smith", "John", "2024-02-01"),
	}

	out := Filter(records, Criteria{NomContains: "ben"})
	if len(out) != 1 || out[0].ID != 1 {
		t.Fatalf("expected only Ben Ali to match \"ben\", got %#v", out)
	}
}

func TestFilter_OnDateMatchesCalendarDay(t *testing.T) {
	records := []Consultation{
		record(1, 7, "Ben Ali", "Samia", "2024-03-15"),
		record(2, 9, "Smith", "John", "2024-02-01"),
		record(3, 3, "Karim", "Leila", "garbage"),
	}

	day := time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC)
	out := Filter(records, Criteria{OnDate: &day})
	if len(out) != 1 || out[0].ID != 1 {
		t.Fatalf("expected only the 2024-03-15 record, got %#v", out)
	}
}

func TestFilter_PatientIDExact(t *testing.T) {
	records := []Consultation{
		record(1, 7, "Ben Ali", "Samia", "2024-01-01"),
		record(2, 9, "Smith", "John", "2024-02-01"),
	}

	id := 9
	out := Filter(records, Criteria{PatientID: &id})
	if len(out) != 1 || out[0].ID != 2 {
		t.Fatalf("expected only patient 9, got %#v", out)
	}
}

func TestFilter_CriteriaCombineWithAND(t *testing.T) {
	records := []Consultation{
		record(1, 7, "Ben Ali", "Samia", "2024-01-01"),
		record(2, 7, "Ben Ali", "Samia", "2024-03-15"),
		record(3, 9, "Smith", "John", "2024-03-15"),
	}

	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	out := Filter(records, Criteria{NomContains: "ben", OnDate: &day})
	if len(out) != 1 || out[0].ID != 2 {
		t.Fatalf("expected AND of nom+date to keep only record 2, got %#v", out)
	}
}

func TestFilter_SequentialEqualsCombined(t *testing.T) {
	records := []Consultation{
		record(1, 7, "Ben Ali", "Samia", "2024-01-01"),
		record(2, 7, "Ben Ali", "Samia", "2024-03-15"),
		record(3, 9, "Smith", "John", "2024-03-15"),
		record(4, 3, "Benkirane", "Omar", "2024-03-15"),
	}

	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	sequential := Filter(Filter(records, Criteria{NomContains: "ben"}), Criteria{OnDate: &day})
	combined := Filter(records, Criteria{NomContains: "ben", OnDate: &day})

	if len(sequential) != len(combined) {
		t.Fatalf("expected same result, got %d vs %d", len(sequential), len(combined))
	}
	for i := range sequential {
		if sequential[i].ID != combined[i].ID {
			t.Fatalf("mismatch at %d: %d vs %d", i, sequential[i].ID, combined[i].ID)
		}
	}
}

func TestFilter_ComposesWithLatestByPatient(t *testing.T) {
	records := []Consultation{
		record(1, 7, "Ben Ali", "Samia", "2024-01-01"),
		record(2, 7, "Ben Ali", "Samia", "2024-03-15"),
		record(3, 9, "Smith", "John", "2024-02-01"),
	}

	out := Filter(LatestByPatient(records), Criteria{NomContains: "Ben"})
	if len(out) != 1 || out[0].ID != 2 {
		t.Fatalf("expected latest Ben Ali consultation only, got %#v", out)
	}
}

func TestHistoryFor_SortedMostRecentFirst(t *testing.T) {
	records := []Consultation{
		record(1, 7, "Ben Ali", "Samia", "2024-01-01"),
		record(2, 9, "Smith", "John", "2024-02-01"),
		record(3, 7, "Ben Ali", "Samia", "2024-03-15"),
	}

	out := HistoryFor(records, 7)
	if len(out) != 2 {
		t.Fatalf("expected 2 records for patient 7, got %d", len(out))
	}
	if out[0].ID != 3 || out[1].ID != 1 {
		t.Fatalf("expected order [3, 1], got [%d, %d]", out[0].ID, out[1].ID)
	}
}

func TestHistoryFor_SameDayTieBreaksByIDDesc(t *testing.T) {
	records := []Consultation{
		record(4, 7, "Ben Ali", "Samia", "2024-03-15"),
		record(9, 7, "Ben Ali", "Samia", "2024-03-15"),
	}

	out := HistoryFor(records, 7)
	if out[0].ID != 9 || out[1].ID != 4 {
		t.Fatalf("expected id 9 first on same day, got [%d, %d]", out[0].ID, out[1].ID)
	}
}

func TestHistoryFor_UnknownPatientIsEmptyNotNilError(t *testing.T) {
	records := []Consultation{
		record(1, 7, "Ben Ali", "Samia", "2024-01-01"),
	}

	out := HistoryFor(records, 999)
	if out == nil {
		t.Fatalf("expected empty slice, got nil")
	}
	if len(out) != 0 {
		t.Fatalf("expected no records, got %d", len(out))
	}
}

func TestHistoryFor_MalformedDateSortsLast(t *testing.T) {
	records := []Consultation{
		record(1, 7, "Ben Ali", "Samia", "bad"),
		record(2, 7, "Ben Ali", "Samia", "2024-03-15"),
	}

	out := HistoryFor(records, 7)
	if out[0].ID != 2 || out[1].ID != 1 {
		t.Fatalf("expected malformed date last, got [%d, %d]", out[0].ID, out[1].ID)
	}
}
