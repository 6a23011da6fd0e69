// Package queue implements a proof queue and worker pool: a buffered job
// channel, a bounded pool of prover workers, a status map keyed by task
// id, and a setup-key cache keyed by program image. Workers are
// long-lived goroutines that range over the job channel until it is
// closed, rather than a one-shot batch fan-out.
package queue

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/turbofold/foldengine/internal/apperr"
	"github.com/turbofold/foldengine/internal/prover"
)

// StdinSource is whatever a job needs from a session: its opaque prover
// stdin bundle and its current public state's canonical encoding.
// Defined narrowly here (rather than importing internal/session
// directly) so the queue does not need to know the reducer's Pub/Priv
// type parameters.
type StdinSource interface {
	StdinBundle() []byte
	EncodedPublicState() []byte
}

// Job is one unit of proof work.
type Job struct {
	TaskID       string
	Session      StdinSource
	ProofKind    prover.ProofKind
	Prover       prover.Prover
	ProgramImage []byte
}

// Status is the current state of a submitted job, as recorded in the
// status map clients poll through GET /proof/{id}.
type Status struct {
	State   State           `json:"status"`
	Result  json.RawMessage `json:"result,omitempty"`
	Message string          `json:"message,omitempty"`
}

// State enumerates a job's lifecycle stage.
type State string

const (
	StateQueued     State = "queued"
	StateInProgress State = "in_progress"
	StateDone       State = "done"
	StateError      State = "error"
)

type setupKeys struct {
	provingKey, verifyingKey []byte
}

// Queue owns the job channel, the worker pool, the status map, and the
// setup-key cache. ProofDir names where the worker persists proof
// artifacts.
type Queue struct {
	jobs     chan *Job
	wg       sync.WaitGroup
	log      *logrus.Logger
	proofDir string

	statusMu sync.RWMutex
	status   map[string]Status

	setupMu sync.Mutex
	setup   map[string]setupKeys
}

// New starts numWorkers goroutines draining a buffered job channel.
// proofDir is created lazily by the first worker that needs to write into
// it.
func New(numWorkers int, proofDir string, log *logrus.Logger) *Queue {
	if log == nil {
		log = logrus.StandardLogger()
	}
	q := &Queue{
		jobs:     make(chan *Job, 64),
		log:      log,
		proofDir: proofDir,
		status:   make(map[string]Status),
		setup:    make(map[string]setupKeys),
	}
	for i := 0; i < numWorkers; i++ {
		q.wg.Add(1)
		go q.workerLoop(i)
	}
	return q
}

// Submit enqueues a new job and returns its generated task id.
func (q *Queue) Submit(session StdinSource, kind prover.ProofKind, p prover.Prover, programImage []byte) string {
	taskID := uuid.NewString()
	q.setStatus(taskID, Status{State: StateQueued})

	q.jobs <- &Job{
		TaskID:       taskID,
		Session:      session,
		ProofKind:    kind,
		Prover:       p,
		ProgramImage: programImage,
	}
	return taskID
}

// Status returns the current status of taskID, or ProofNotFound.
func (q *Queue) Status(taskID string) (Status, error) {
	q.statusMu.RLock()
	s, ok := q.status[taskID]
	q.statusMu.RUnlock()
	if !ok {
		return Status{}, apperr.New(apperr.KindProofNotFound, "no proof job with id %q", taskID)
	}
	return s, nil
}

func (q *Queue) setStatus(taskID string, s Status) {
	q.statusMu.Lock()
	q.status[taskID] = s
	q.statusMu.Unlock()
}

// Close stops accepting new jobs and waits for in-flight workers to drain
// the channel. Cancellation is cooperative: a job already dequeued runs
// to completion.
func (q *Queue) Close() {
	close(q.jobs)
	q.wg.Wait()
}

func (q *Queue) workerLoop(workerID int) {
	defer q.wg.Done()
	for job := range q.jobs {
		q.log.WithFields(logrus.Fields{"worker": workerID, "task_id": job.TaskID}).Info("dequeued proof job")
		q.runJob(job)
	}
}

func (q *Queue) runJob(job *Job) {
	q.setStatus(job.TaskID, Status{State: StateInProgress})

	pk, vk, err := q.setupKeysFor(job.Prover, job.ProgramImage)
	if err != nil {
		q.fail(job.TaskID, apperr.Wrap(apperr.KindProverSetupFailed, err, "prover setup failed"))
		return
	}

	stdin := job.Session.StdinBundle()

	cycles, err := job.Prover.Execute(job.ProgramImage, stdin)
	if err != nil {
		q.fail(job.TaskID, apperr.Wrap(apperr.KindProverSetupFailed, err, "execute failed"))
		return
	}

	proof, publicValues, err := job.Prover.Prove(job.ProofKind, job.ProgramImage, stdin, pk)
	if err != nil {
		q.fail(job.TaskID, apperr.Wrap(apperr.KindProofGenFailed, err, "proof generation failed"))
		return
	}

	if err := q.persistProof(job.TaskID, proof); err != nil {
		q.fail(job.TaskID, apperr.Wrap(apperr.KindProofPersistFailed, err, "persisting proof artifact failed"))
		return
	}

	result, err := json.Marshal(struct {
		Cycles             uint64 `json:"cycles"`
		VerifyingKeyDigest string `json:"verifying_key_digest"`
		PublicValues       string `json:"public_values"`
		DecodedPublicState string `json:"decoded_public_state"`
	}{
		Cycles:             cycles,
		VerifyingKeyDigest: hex.EncodeToString(vk),
		PublicValues:       hex.EncodeToString(publicValues),
		DecodedPublicState: hex.EncodeToString(job.Session.EncodedPublicState()),
	})
	if err != nil {
		q.fail(job.TaskID, apperr.Wrap(apperr.KindInternal, err, "marshaling proof result"))
		return
	}

	q.setStatus(job.TaskID, Status{State: StateDone, Result: result})
}

func (q *Queue) fail(taskID string, err error) {
	q.log.WithFields(logrus.Fields{"task_id": taskID}).Warn(err)
	q.setStatus(taskID, Status{State: StateError, Message: err.Error()})
}

// setupKeysFor memoizes (proving_key, verifying_key) by program image
// bytes so repeated jobs on the same image skip setup.
func (q *Queue) setupKeysFor(p prover.Prover, image []byte) (pk, vk []byte, err error) {
	key := string(image)

	q.setupMu.Lock()
	defer q.setupMu.Unlock()

	if cached, ok := q.setup[key]; ok {
		return cached.provingKey, cached.verifyingKey, nil
	}

	pk, vk, err = p.Setup(image)
	if err != nil {
		return nil, nil, err
	}
	q.setup[key] = setupKeys{provingKey: pk, verifyingKey: vk}
	return pk, vk, nil
}

func (q *Queue) persistProof(taskID string, proof []byte) error {
	if err := os.MkdirAll(q.proofDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(q.proofDir, taskID), proof, 0o644)
}
