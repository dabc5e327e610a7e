package utils

import "log"

// Notifier runs best-effort side effects (mail, socket broadcasts) on a
// background queue so they never delay or fail the request that queued them.
type Notifier struct {
	jobs chan func()
}

func NewNotifier(buffer int) *Notifier {
	n := &Notifier{jobs: make(chan func(), buffer)}
	go n.run()
	return n
}

func (n *Notifier) run() {
	for job := range n.jobs {
		n.runOne(job)
	}
}

func (n *Notifier) runOne(job func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Println("Notifier job panicked:", r)
		}
	}()
	job()
}

// Dispatch queues a job without blocking. When the queue is full the job is
// dropped and logged; the caller's request must not wait on it.
func (n *Notifier) Dispatch(job func()) {
	select {
	case n.jobs <- job:
	default:
		log.Println("Notifier queue full, dropping job.")
	}
}
