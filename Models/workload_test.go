package Models_test

import (
	"testing"

	"StockTake/Models"
)

func TestGetCounterWorkloadLoadAndProgress(t *testing.T) {
	db := newTestDB(t)
	busy := seedWorker(t, db, "amina")
	idle := seedWorker(t, db, "بلال")
	location := seedLocation(t, db, "Main Warehouse")

	// Five active tasks tips a worker into overloaded.
	for i := 0; i < 5; i++ {
		bin := seedBin(t, db, location.ID, "A-0"+string(rune('1'+i)))
		seedItem(t, db, bin.ID, "SKU-"+bin.Code, 10)
		task := seedBinCount(t, db, location.ID, bin.ID)
		if err := Models.StartCount(db, task.ID, busy.ID, busy.Name); err != nil {
			t.Fatalf("starting count: %v", err)
		}
	}

	snapshots := Models.GetCounterWorkload(db)
	byName := map[string]Models.WorkerLoadSnapshot{}
	for _, s := range snapshots {
		byName[s.Name] = s
	}

	busySnapshot, ok := byName[busy.Name]
	if !ok {
		t.Fatalf("missing snapshot for %s", busy.Name)
	}
	if busySnapshot.ActiveCount != 5 || busySnapshot.Status != Models.WorkerOverloaded {
		t.Fatalf("five active tasks should read overloaded: %+v", busySnapshot)
	}
	if busySnapshot.TotalItems != 5 || busySnapshot.CountedItems != 0 || busySnapshot.CurrentProgress != 0 {
		t.Fatalf("no quantities recorded yet: %+v", busySnapshot)
	}

	idleSnapshot, ok := byName[idle.Name]
	if !ok {
		t.Fatalf("missing snapshot for %s", idle.Name)
	}
	if idleSnapshot.ActiveCount != 0 || idleSnapshot.Status != Models.WorkerAvailable {
		t.Fatalf("idle worker should be available: %+v", idleSnapshot)
	}
	if idleSnapshot.Accuracy != 0 {
		t.Fatalf("no resolved tasks means zero accuracy, got %v", idleSnapshot.Accuracy)
	}
}

func TestGetCounterWorkloadProgressAndAccuracy(t *testing.T) {
	db := newTestDB(t)
	worker := seedWorker(t, db, "amina")
	location := seedLocation(t, db, "Main Warehouse")

	// One resolved count at 90 accuracy.
	resolvedBin := seedBin(t, db, location.ID, "R-01")
	resolvedItem := seedItem(t, db, resolvedBin.ID, "SKU-R", 100)
	resolved := seedBinCount(t, db, location.ID, resolvedBin.ID)
	if err := Models.StartCount(db, resolved.ID, worker.ID, worker.Name); err != nil {
		t.Fatalf("starting count: %v", err)
	}
	if err := Models.RecordQuantities(db, resolved.ID, []Models.QuantityEntry{{ItemID: resolvedItem.ID, Counted: 90}}); err != nil {
		t.Fatalf("recording quantities: %v", err)
	}
	if err := Models.SubmitCount(db, resolved.ID); err != nil {
		t.Fatalf("submitting count: %v", err)
	}

	// One active count, half entered.
	activeBin := seedBin(t, db, location.ID, "A-01")
	counted := seedItem(t, db, activeBin.ID, "SKU-A1", 10)
	seedItem(t, db, activeBin.ID, "SKU-A2", 10)
	active := seedBinCount(t, db, location.ID, activeBin.ID)
	if err := Models.StartCount(db, active.ID, worker.ID, worker.Name); err != nil {
		t.Fatalf("starting count: %v", err)
	}
	if err := Models.RecordQuantities(db, active.ID, []Models.QuantityEntry{{ItemID: counted.ID, Counted: 10}}); err != nil {
		t.Fatalf("recording quantities: %v", err)
	}

	snapshots := Models.GetCounterWorkload(db)
	var snapshot *Models.WorkerLoadSnapshot
	for i := range snapshots {
		if snapshots[i].UserID == worker.ID {
			snapshot = &snapshots[i]
		}
	}
	if snapshot == nil {
		t.Fatal("missing worker snapshot")
	}
	if snapshot.ActiveCount != 1 {
		t.Fatalf("submitted counts are no longer active: %+v", snapshot)
	}
	if snapshot.TotalItems != 2 || snapshot.CountedItems != 1 || snapshot.CurrentProgress != 0.5 {
		t.Fatalf("expected half progress: %+v", snapshot)
	}
	if snapshot.Accuracy != 90 {
		t.Fatalf("expected accuracy 90 from the resolved count, got %v", snapshot.Accuracy)
	}
}
