package service

import (
	"sync"

	"github.com/sirupsen/logrus"
)

type mailKind int

const (
	mailOTP mailKind = iota
	mailPasswordReset
)

type mailJob struct {
	kind           mailKind
	to             string
	name           string
	secret         string
	isRegistration bool
}

// MailDispatcher decouples email delivery from the account state
// transitions: handlers enqueue and move on, a single worker drains the
// queue and delivery failures are logged, never returned. Enqueueing on a
// full queue drops the job rather than blocking a request.
type MailDispatcher struct {
	sender EmailSender
	log    *logrus.Logger

	jobs      chan mailJob
	wg        sync.WaitGroup
	closeOnce sync.Once
}

func NewMailDispatcher(sender EmailSender, log *logrus.Logger) *MailDispatcher {
	d := &MailDispatcher{
		sender: sender,
		log:    log,
		jobs:   make(chan mailJob, 64),
	}
	d.wg.Add(1)
	go d.run()
	return d
}

func (d *MailDispatcher) NotifyOTP(email string, name string, code string, isRegistration bool) {
	d.enqueue(mailJob{kind: mailOTP, to: email, name: name, secret: code, isRegistration: isRegistration})
}

func (d *MailDispatcher) NotifyPasswordReset(email string, name string, token string) {
	d.enqueue(mailJob{kind: mailPasswordReset, to: email, name: name, secret: token})
}

// Close stops accepting jobs and waits for the queue to drain.
func (d *MailDispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.jobs)
	})
	d.wg.Wait()
}

func (d *MailDispatcher) enqueue(job mailJob) {
	select {
	case d.jobs <- job:
	default:
		d.warn("mail queue full, dropping message", job)
	}
}

func (d *MailDispatcher) run() {
	defer d.wg.Done()
	for job := range d.jobs {
		var err error
		switch job.kind {
		case mailOTP:
			err = d.sender.SendOTPEmail(job.to, job.name, job.secret, job.isRegistration)
		case mailPasswordReset:
			err = d.sender.SendPasswordResetEmail(job.to, job.name, job.secret)
		}
		if err != nil {
			d.warnErr("email delivery failed", job, err)
		}
	}
}

func (d *MailDispatcher) warn(msg string, job mailJob) {
	if d.log == nil {
		return
	}
	d.log.WithField("to", job.to).Warn(msg)
}

func (d *MailDispatcher) warnErr(msg string, job mailJob, err error) {
	if d.log == nil {
		return
	}
	d.log.WithField("to", job.to).WithError(err).Warn(msg)
}
