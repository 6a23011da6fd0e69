package queue

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/turbofold/foldengine/internal/prover"
	"github.com/turbofold/foldengine/internal/prover/demoprover"
)

type fakeSession struct {
	bundle []byte
	public []byte
}

func (f fakeSession) StdinBundle() []byte        { return f.bundle }
func (f fakeSession) EncodedPublicState() []byte { return f.public }

func waitForTerminal(t *testing.T, q *Queue, taskID string) Status {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s, err := q.Status(taskID)
		if err != nil {
			t.Fatalf("Status: %v", err)
		}
		if s.State == StateDone || s.State == StateError {
			return s
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("job %s did not reach a terminal state in time", taskID)
	return Status{}
}

func TestSubmitRunsJobToCompletion(t *testing.T) {
	dir := t.TempDir()
	q := New(2, dir, nil)
	defer q.Close()

	taskID := q.Submit(fakeSession{bundle: []byte("stdin"), public: []byte("pub-state")}, prover.KindCore, demoprover.New(), []byte("image"))

	status := waitForTerminal(t, q, taskID)
	if status.State != StateDone {
		t.Fatalf("expected job to complete, got state=%s message=%s", status.State, status.Message)
	}

	if _, err := os.Stat(dir + "/" + taskID); err != nil {
		t.Fatalf("expected a persisted proof artifact: %v", err)
	}

	var result struct {
		DecodedPublicState string `json:"decoded_public_state"`
	}
	if err := json.Unmarshal(status.Result, &result); err != nil {
		t.Fatalf("unmarshaling result: %v", err)
	}
	if want := hex.EncodeToString([]byte("pub-state")); result.DecodedPublicState != want {
		t.Fatalf("expected decoded_public_state %q, got %q", want, result.DecodedPublicState)
	}
}

func TestStatusUnknownTaskIsProofNotFound(t *testing.T) {
	q := New(1, t.TempDir(), nil)
	defer q.Close()

	if _, err := q.Status("nonexistent"); err == nil {
		t.Fatalf("expected ProofNotFound for an unknown task id")
	}
}

func TestConcurrentJobsAllComplete(t *testing.T) {
	q := New(3, t.TempDir(), nil)
	defer q.Close()

	var ids []string
	for i := 0; i < 10; i++ {
		ids = append(ids, q.Submit(fakeSession{bundle: []byte("stdin")}, prover.KindCore, demoprover.New(), []byte("image")))
	}

	for _, id := range ids {
		status := waitForTerminal(t, q, id)
		if status.State != StateDone {
			t.Fatalf("job %s did not complete: state=%s message=%s", id, status.State, status.Message)
		}
	}
}

func TestSetupCacheReusedAcrossJobsWithSameImage(t *testing.T) {
	q := New(1, t.TempDir(), nil)
	defer q.Close()

	p := demoprover.New()
	id1 := q.Submit(fakeSession{bundle: []byte("a")}, prover.KindCore, p, []byte("shared-image"))
	waitForTerminal(t, q, id1)
	id2 := q.Submit(fakeSession{bundle: []byte("b")}, prover.KindCore, p, []byte("shared-image"))
	waitForTerminal(t, q, id2)

	if len(q.setup) != 1 {
		t.Fatalf("expected exactly one cached setup entry for the shared image, got %d", len(q.setup))
	}
}
