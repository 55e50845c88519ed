package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"schooladmin/database"
	"schooladmin/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// FeeService owns fee billing: paying, bulk class billing, reminders
// and the collection summary.
type FeeService struct {
	db *gorm.DB
}

func NewFeeService() *FeeService {
	return &FeeService{db: database.GetDB()}
}

var ErrEmptyClass = errors.New("class has no students")

// PayFee marks a fee as paid. The operation is idempotent in effect:
// paying an already-paid fee leaves it paid.
func (fs *FeeService) PayFee(feeID uint) (*models.Fee, error) {
	var fee models.Fee
	if err := fs.db.First(&fee, feeID).Error; err != nil {
		return nil, err
	}

	if err := fs.db.Model(&fee).Update("status", models.FeePaid).Error; err != nil {
		return nil, err
	}
	fee.Status = models.FeePaid
	return &fee, nil
}

// CreateClassFee bills every current member of a class in one
// transaction. Either all students end up with a new unpaid fee or,
// if any insert fails, none do.
func (fs *FeeService) CreateClassFee(classID uint, amount float64, dueDate time.Time) ([]models.Fee, error) {
	var students []models.Student
	if err := fs.db.Where("school_class_id = ?", classID).Find(&students).Error; err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return nil, ErrEmptyClass
	}

	fees := make([]models.Fee, 0, len(students))
	for _, s := range students {
		fees = append(fees, models.Fee{
			StudentID: s.ID,
			Amount:    amount,
			DueDate:   dueDate,
			Status:    models.FeeUnpaid,
		})
	}

	err := fs.db.Transaction(func(tx *gorm.DB) error {
		for i := range fees {
			if err := tx.Create(&fees[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fees, nil
}

// reminderSentToday marks a fee as reminded for the current calendar
// day using a Redis SETNX key. Returns true when a reminder was already
// sent today. Without Redis every call reminds again.
func reminderSentToday(feeID uint) bool {
	rc := database.GetRedisClient()
	if rc == nil {
		return false
	}
	key := fmt.Sprintf("fee:reminder:%d:%s", feeID, time.Now().Format("2006-01-02"))
	ok, err := rc.SetNX(context.Background(), key, "1", 24*time.Hour).Result()
	if err != nil {
		return false
	}
	return !ok
}

// SendFeeReminders creates one notification per outstanding fee,
// addressed to the owning student's user. At most one reminder goes out
// per fee per calendar day when Redis is available.
func (fs *FeeService) SendFeeReminders() (int, error) {
	var fees []models.Fee
	err := fs.db.Where("status IN ?", []string{models.FeeUnpaid, models.FeePartial}).
		Preload("Student").
		Find(&fees).Error
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, fee := range fees {
		if fee.Student.UserID == 0 {
			continue
		}
		if reminderSentToday(fee.ID) {
			continue
		}
		notification := models.Notification{
			UserID:  fee.Student.UserID,
			Title:   "Fee Payment Reminder",
			Message: fmt.Sprintf("You have an outstanding fee of %.2f due on %s. Please arrange payment.", fee.Amount, fee.DueDate.Format("2006-01-02")),
			Type:    "warning",
		}
		if err := fs.db.Create(&notification).Error; err != nil {
			logrus.WithError(err).WithField("fee_id", fee.ID).Error("Failed to create fee reminder")
			continue
		}
		BroadcastNotification(notification)
		sent++
	}
	return sent, nil
}

// ClassOutstanding is one row of the per-class breakdown, sorted
// descending by outstanding amount.
type ClassOutstanding struct {
	ClassName   string  `json:"class_name"`
	Outstanding float64 `json:"outstanding"`
}

// FeesSummary aggregates paid vs. unpaid counts and totals plus the
// per-class outstanding breakdown.
type FeesSummary struct {
	PaidCount    int64              `json:"paid_count"`
	PaidTotal    float64            `json:"paid_total"`
	UnpaidCount  int64              `json:"unpaid_count"`
	UnpaidTotal  float64            `json:"unpaid_total"`
	ByClass      []ClassOutstanding `json:"by_class"`
	GeneratedAt  time.Time          `json:"generated_at"`
	TotalFeeRows int64              `json:"total_fee_rows"`
}

// feeSummaryRow is the shape loaded for summary computation
type feeSummaryRow struct {
	Amount    float64
	Status    string
	ClassName string
}

// SummarizeFees computes the fee summary from loaded rows. Partial fees
// count as unpaid for totals, matching the outstanding definition.
func SummarizeFees(rows []feeSummaryRow, now time.Time) FeesSummary {
	summary := FeesSummary{GeneratedAt: now, TotalFeeRows: int64(len(rows))}
	outstanding := make(map[string]float64)

	for _, r := range rows {
		if r.Status == models.FeePaid {
			summary.PaidCount++
			summary.PaidTotal += r.Amount
			continue
		}
		summary.UnpaidCount++
		summary.UnpaidTotal += r.Amount
		name := r.ClassName
		if name == "" {
			name = "Unassigned"
		}
		outstanding[name] += r.Amount
	}

	for name, amt := range outstanding {
		summary.ByClass = append(summary.ByClass, ClassOutstanding{ClassName: name, Outstanding: amt})
	}
	sort.Slice(summary.ByClass, func(i, j int) bool {
		if summary.ByClass[i].Outstanding != summary.ByClass[j].Outstanding {
			return summary.ByClass[i].Outstanding > summary.ByClass[j].Outstanding
		}
		return summary.ByClass[i].ClassName < summary.ByClass[j].ClassName
	})
	return summary
}

// FeesSummary loads fee rows with their class names and aggregates them.
func (fs *FeeService) FeesSummary() (*FeesSummary, error) {
	var rows []feeSummaryRow
	err := fs.db.Model(&models.Fee{}).
		Select("fees.amount AS amount, fees.status AS status, school_classes.name AS class_name").
		Joins("JOIN students ON students.id = fees.student_id").
		Joins("LEFT JOIN school_classes ON school_classes.id = students.school_class_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	summary := SummarizeFees(rows, time.Now())
	return &summary, nil
}
