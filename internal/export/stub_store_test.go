package export

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rowguard/rowguard/internal/domain"
	"github.com/rowguard/rowguard/internal/repository"

	"github.com/google/uuid"
)

// memStore is an in-memory repository.Store. WithinTx snapshots state and
// restores it on error, mirroring the all-or-nothing contract of the real
// store.
type memStore struct {
	rules      []domain.Rule
	jobs       []domain.Job
	clean      []domain.Record
	quarantine []domain.Record
	logs       []domain.LogEntry
	nextLogID  int64

	failQuarantineInserts bool
}

func (m *memStore) Rules() repository.RuleRepository     { return memRules{m} }
func (m *memStore) Jobs() repository.JobRepository       { return memJobs{m} }
func (m *memStore) Records() repository.RecordRepository { return memRecords{m} }
func (m *memStore) Logs() repository.LogRepository       { return memLogs{m} }

func (m *memStore) WithinTx(_ context.Context, fn func(repository.Store) error) error {
	snapshot := m.snapshot()
	if err := fn(m); err != nil {
		*m = snapshot
		return err
	}
	return nil
}

func (m *memStore) snapshot() memStore {
	c := memStore{nextLogID: m.nextLogID, failQuarantineInserts: m.failQuarantineInserts}
	c.rules = append([]domain.Rule(nil), m.rules...)
	c.jobs = append([]domain.Job(nil), m.jobs...)
	c.clean = append([]domain.Record(nil), m.clean...)
	c.quarantine = append([]domain.Record(nil), m.quarantine...)
	c.logs = append([]domain.LogEntry(nil), m.logs...)
	return c
}

type memRules struct{ s *memStore }

func (r memRules) List(context.Context) ([]domain.Rule, error) {
	return append([]domain.Rule(nil), r.s.rules...), nil
}

func (r memRules) ListActive(context.Context) ([]domain.Rule, error) {
	active := []domain.Rule{}
	for _, rule := range r.s.rules {
		if rule.Active {
			active = append(active, rule)
		}
	}
	return active, nil
}

func (r memRules) Create(_ context.Context, rule domain.Rule) (domain.Rule, error) {
	rule.ID = uuid.New()
	rule.CreatedAt = time.Now()
	rule.UpdatedAt = rule.CreatedAt
	r.s.rules = append(r.s.rules, rule)
	return rule, nil
}

func (r memRules) Update(_ context.Context, rule domain.Rule) (domain.Rule, error) {
	for i := range r.s.rules {
		if r.s.rules[i].ID == rule.ID {
			rule.UpdatedAt = time.Now()
			r.s.rules[i] = rule
			return rule, nil
		}
	}
	return domain.Rule{}, domain.ErrNotFound
}

func (r memRules) ReplaceAll(ctx context.Context, rules []domain.Rule) error {
	r.s.rules = nil
	for _, rule := range rules {
		if _, err := r.Create(ctx, rule); err != nil {
			return err
		}
	}
	return nil
}

type memJobs struct{ s *memStore }

func (j memJobs) Create(_ context.Context, job domain.Job) (domain.Job, error) {
	job.ID = uuid.New()
	job.CreatedAt = time.Now()
	j.s.jobs = append(j.s.jobs, job)
	return job, nil
}

func (j memJobs) GetByID(_ context.Context, id uuid.UUID) (domain.Job, error) {
	for _, job := range j.s.jobs {
		if job.ID == id {
			return job, nil
		}
	}
	return domain.Job{}, domain.ErrNotFound
}

func (j memJobs) List(_ context.Context, _ int) ([]domain.Job, error) {
	return append([]domain.Job(nil), j.s.jobs...), nil
}

func (j memJobs) LockForUpdate(ctx context.Context, id uuid.UUID) (domain.Job, error) {
	return j.GetByID(ctx, id)
}

func (j memJobs) UpdateCounts(_ context.Context, id uuid.UUID, status domain.JobStatus, total, clean, quarantined int) error {
	for i := range j.s.jobs {
		if j.s.jobs[i].ID == id {
			j.s.jobs[i].Status = status
			j.s.jobs[i].TotalRows = total
			j.s.jobs[i].CleanRows = clean
			j.s.jobs[i].QuarantinedRows = quarantined
			return nil
		}
	}
	return domain.ErrNotFound
}

type memRecords struct{ s *memStore }

func (r memRecords) Insert(_ context.Context, partition domain.Partition, record domain.Record) (domain.Record, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	record.Partition = partition
	record.CreatedAt = time.Now()
	switch partition {
	case domain.PartitionClean:
		r.s.clean = append(r.s.clean, record)
	case domain.PartitionQuarantine:
		if r.s.failQuarantineInserts {
			return domain.Record{}, errors.New("storage failure")
		}
		r.s.quarantine = append(r.s.quarantine, record)
	}
	return record, nil
}

func (r memRecords) GetClean(_ context.Context, id uuid.UUID) (domain.Record, error) {
	for _, record := range r.s.clean {
		if record.ID == id {
			return record, nil
		}
	}
	return domain.Record{}, domain.ErrNotFound
}

func (r memRecords) GetQuarantined(_ context.Context, id uuid.UUID) (domain.Record, error) {
	for _, record := range r.s.quarantine {
		if record.ID == id {
			return record, nil
		}
	}
	return domain.Record{}, domain.ErrNotFound
}

func (r memRecords) ListClean(_ context.Context, jobID *uuid.UUID, _ int) ([]domain.Record, error) {
	return filterRecords(r.s.clean, jobID), nil
}

func (r memRecords) ListQuarantined(_ context.Context, jobID *uuid.UUID) ([]domain.Record, error) {
	return filterRecords(r.s.quarantine, jobID), nil
}

func (r memRecords) ListByJob(_ context.Context, jobID uuid.UUID) ([]domain.Record, error) {
	merged := append(filterRecords(r.s.clean, &jobID), filterRecords(r.s.quarantine, &jobID)...)
	sort.Slice(merged, func(i, j int) bool { return merged[i].RowNumber < merged[j].RowNumber })
	return merged, nil
}

func (r memRecords) UpdateQuarantinedRow(_ context.Context, id uuid.UUID, row domain.Row) (domain.Record, error) {
	for i := range r.s.quarantine {
		if r.s.quarantine[i].ID == id {
			r.s.quarantine[i].Row = row
			return r.s.quarantine[i], nil
		}
	}
	return domain.Record{}, domain.ErrNotFound
}

func (r memRecords) DeleteQuarantined(_ context.Context, id uuid.UUID) error {
	for i := range r.s.quarantine {
		if r.s.quarantine[i].ID == id {
			r.s.quarantine = append(r.s.quarantine[:i], r.s.quarantine[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r memRecords) DeleteByJob(_ context.Context, jobID uuid.UUID) error {
	r.s.clean = rejectRecords(r.s.clean, jobID)
	r.s.quarantine = rejectRecords(r.s.quarantine, jobID)
	return nil
}

func filterRecords(records []domain.Record, jobID *uuid.UUID) []domain.Record {
	out := []domain.Record{}
	for _, record := range records {
		if jobID == nil || record.JobID == *jobID {
			out = append(out, record)
		}
	}
	return out
}

func rejectRecords(records []domain.Record, jobID uuid.UUID) []domain.Record {
	out := []domain.Record{}
	for _, record := range records {
		if record.JobID != jobID {
			out = append(out, record)
		}
	}
	return out
}

type memLogs struct{ s *memStore }

func (l memLogs) Append(_ context.Context, entry domain.LogEntry) error {
	l.s.nextLogID++
	entry.ID = l.s.nextLogID
	entry.CreatedAt = time.Now()
	l.s.logs = append(l.s.logs, entry)
	return nil
}

func (l memLogs) ListByJob(_ context.Context, jobID uuid.UUID) ([]domain.LogEntry, error) {
	entries := []domain.LogEntry{}
	for _, entry := range l.s.logs {
		if entry.JobID == jobID {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].RowNumber != entries[j].RowNumber {
			return entries[i].RowNumber < entries[j].RowNumber
		}
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}

func (l memLogs) DeleteByJob(_ context.Context, jobID uuid.UUID) error {
	kept := []domain.LogEntry{}
	for _, entry := range l.s.logs {
		if entry.JobID != jobID {
			kept = append(kept, entry)
		}
	}
	l.s.logs = kept
	return nil
}
