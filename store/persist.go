package store

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"lindel.lk/lims/models"
)

// Persister is the write-through hook behind the in-memory store. Each
// method persists one accepted mutation; returning an error aborts the
// mutation before it becomes visible in memory.
type Persister interface {
	SaveRequest(*models.Request) error
	SaveQuotation(*models.Quotation) error
	SaveCRF(*models.CRF) error
	SaveAssignments(crfID string, assignments []models.ParameterAssignment) error
	SaveResult(*models.TestResult) error
	SaveReview(*models.Review) error
	SaveParameter(*models.TestParameter) error
	SaveCounter(models.SequenceCounter) error
}

// GormPersister writes through to the relational store. Entities are
// keyed by their minted or derived ids, and the sequence counters ride
// along as rows since they are not reconstructible from the entities.
type GormPersister struct {
	db *gorm.DB
}

func NewGormPersister(db *gorm.DB) *GormPersister {
	return &GormPersister{db: db}
}

func (p *GormPersister) SaveRequest(req *models.Request) error {
	return p.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(req).Error
}

func (p *GormPersister) SaveQuotation(q *models.Quotation) error {
	return p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quotation_id = ?", q.RequestID).Delete(&models.QuotationItem{}).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(q).Error
	})
}

func (p *GormPersister) SaveCRF(crf *models.CRF) error {
	return p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Omit("Samples").Create(crf).Error; err != nil {
			return err
		}
		for i := range crf.Samples {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&crf.Samples[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (p *GormPersister) SaveAssignments(crfID string, assignments []models.ParameterAssignment) error {
	return p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("crf_id = ?", crfID).Delete(&models.ParameterAssignment{}).Error; err != nil {
			return err
		}
		if len(assignments) == 0 {
			return nil
		}
		return tx.Create(&assignments).Error
	})
}

func (p *GormPersister) SaveResult(res *models.TestResult) error {
	return p.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(res).Error
}

func (p *GormPersister) SaveReview(rev *models.Review) error {
	return p.db.Create(rev).Error
}

func (p *GormPersister) SaveParameter(param *models.TestParameter) error {
	return p.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(param).Error
}

func (p *GormPersister) SaveCounter(counter models.SequenceCounter) error {
	return p.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&counter).Error
}

// Load rehydrates the store from the relational state written by a
// GormPersister. Called once at boot, before the router starts serving.
func (s *Store) Load(db *gorm.DB) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var counters []models.SequenceCounter
	if err := db.Find(&counters).Error; err != nil {
		return fmt.Errorf("load counters: %w", err)
	}
	for _, c := range counters {
		s.counters[counterKey{c.Scope, c.CRFType, c.Year}] = c.Value
	}

	var requests []models.Request
	if err := db.Order("created_at").Find(&requests).Error; err != nil {
		return fmt.Errorf("load requests: %w", err)
	}
	for i := range requests {
		req := requests[i]
		s.requests[req.RequestID] = &req
		s.requestOrder = append(s.requestOrder, req.RequestID)
	}

	var quotations []models.Quotation
	if err := db.Preload("Items").Find(&quotations).Error; err != nil {
		return fmt.Errorf("load quotations: %w", err)
	}
	for i := range quotations {
		q := quotations[i]
		s.quotations[q.RequestID] = &q
	}

	var crfs []models.CRF
	if err := db.Preload("Samples").Order("created_at").Find(&crfs).Error; err != nil {
		return fmt.Errorf("load crfs: %w", err)
	}
	for i := range crfs {
		crf := crfs[i]
		s.crfs[crf.CRFID] = &crf
		s.crfOrder = append(s.crfOrder, crf.CRFID)
	}

	var assignments []models.ParameterAssignment
	if err := db.Find(&assignments).Error; err != nil {
		return fmt.Errorf("load assignments: %w", err)
	}
	for _, a := range assignments {
		s.assignments[a.CRFID] = append(s.assignments[a.CRFID], a)
	}

	var results []models.TestResult
	if err := db.Find(&results).Error; err != nil {
		return fmt.Errorf("load results: %w", err)
	}
	for i := range results {
		res := results[i]
		s.results[resultKey{res.CRFID, res.SampleID, res.Parameter}] = &res
	}

	var reviews []models.Review
	if err := db.Order("created_at").Find(&reviews).Error; err != nil {
		return fmt.Errorf("load reviews: %w", err)
	}
	for _, r := range reviews {
		s.reviews[r.CRFID] = append(s.reviews[r.CRFID], r)
	}

	var params []models.TestParameter
	if err := db.Order("created_at").Find(&params).Error; err != nil {
		return fmt.Errorf("load parameter catalog: %w", err)
	}
	for i := range params {
		p := params[i]
		s.catalog[p.Name] = &p
		s.catalogOrder = append(s.catalogOrder, p.Name)
	}

	return nil
}
