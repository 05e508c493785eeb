package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/seunits/attendance-backend-go/internal/domain/attendance"
	"github.com/seunits/attendance-backend-go/internal/pkg/civil"
)

const (
	attrEmployeeID = "EmployeeID"
	attrWorkDate   = "WorkDate"
	attrStatus     = "Status"
	attrVersion    = "Version"

	tableWaitTimeout = 30 * time.Second
)

// attendanceItem is the stored shape of one (employee, day) record.
type attendanceItem struct {
	EmployeeID      string    `dynamodbav:"EmployeeID"`
	WorkDate        string    `dynamodbav:"WorkDate"`
	ID              string    `dynamodbav:"ID"`
	Status          string    `dynamodbav:"Status,omitempty"`
	CheckInTime     *string   `dynamodbav:"CheckInTime,omitempty"`
	CheckOutTime    *string   `dynamodbav:"CheckOutTime,omitempty"`
	OvertimeMinutes int       `dynamodbav:"OvertimeMinutes"`
	Version         int       `dynamodbav:"Version"`
	CreatedAt       time.Time `dynamodbav:"CreatedAt"`
	UpdatedAt       time.Time `dynamodbav:"UpdatedAt"`
}

func toItem(att attendance.Attendance) attendanceItem {
	return attendanceItem{
		EmployeeID:      att.EmployeeID,
		WorkDate:        att.WorkDate.String(),
		ID:              att.ID,
		Status:          string(att.Status),
		CheckInTime:     att.CheckInTime,
		CheckOutTime:    att.CheckOutTime,
		OvertimeMinutes: att.OvertimeMinutes,
		Version:         att.Version,
		CreatedAt:       att.CreatedAt,
		UpdatedAt:       att.UpdatedAt,
	}
}

func (it attendanceItem) toAttendance() (attendance.Attendance, error) {
	day, err := civil.ParseDate(it.WorkDate)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("stored attendance %s: %w", it.ID, err)
	}
	return attendance.Attendance{
		ID:              it.ID,
		EmployeeID:      it.EmployeeID,
		WorkDate:        day,
		Status:          attendance.Status(it.Status),
		CheckInTime:     it.CheckInTime,
		CheckOutTime:    it.CheckOutTime,
		OvertimeMinutes: it.OvertimeMinutes,
		Version:         it.Version,
		CreatedAt:       it.CreatedAt,
		UpdatedAt:       it.UpdatedAt,
	}, nil
}

// AttendanceRepository implements attendance.AttendanceRepository on a
// DynamoDB table keyed by (EmployeeID, WorkDate). Writes are conditional
// PutItem calls, so the key itself enforces one record per employee and day.
type AttendanceRepository struct {
	client *ddb.Client
	config Config
	now    func() time.Time
}

// NewAttendanceRepository builds the client for cfg.Mode and, in local mode,
// creates the table when it is missing.
func NewAttendanceRepository(ctx context.Context, cfg Config) (*AttendanceRepository, error) {
	var client *ddb.Client

	if cfg.Mode == ModeLocal {
		// LoadDefaultConfig probes IMDS, which hangs when static credentials are intended.
		client = ddb.New(ddb.Options{
			Region:       cfg.Region,
			BaseEndpoint: aws.String(cfg.Endpoint),
			Credentials:  credentials.NewStaticCredentialsProvider("local", "local", ""),
		})
	} else {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		client = ddb.NewFromConfig(awsCfg)
	}

	if cfg.Mode == ModeLocal {
		if err := CreateTablesIfNotExist(ctx, client, cfg); err != nil {
			return nil, err
		}
	}

	slog.Info("DynamoDB attendance store initialized",
		"mode", string(cfg.Mode),
		"region", cfg.Region,
		"table", cfg.AttendanceTable,
	)

	return &AttendanceRepository{client: client, config: cfg, now: time.Now}, nil
}

func isConditionFailed(err error) bool {
	var ccf *dbtypes.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

func (r *AttendanceRepository) key(employeeID string, day civil.Date) (map[string]dbtypes.AttributeValue, error) {
	return attributevalue.MarshalMap(struct {
		EmployeeID string `dynamodbav:"EmployeeID"`
		WorkDate   string `dynamodbav:"WorkDate"`
	}{employeeID, day.String()})
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *AttendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, day civil.Date) (attendance.Attendance, error) {
	key, err := r.key(employeeID, day)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to marshal key: %w", err)
	}

	out, err := r.client.GetItem(ctx, &ddb.GetItemInput{
		TableName:      aws.String(r.config.AttendanceTable),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	if len(out.Item) == 0 {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}

	var item attendanceItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to unmarshal attendance: %w", err)
	}
	return item.toAttendance()
}

// Create implements attendance.AttendanceRepository.
func (r *AttendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	now := r.now().UTC()
	newAttendance.ID = uuid.NewString()
	newAttendance.Version = 1
	newAttendance.CreatedAt = now
	newAttendance.UpdatedAt = now

	cond := expression.AttributeNotExists(expression.Name(attrEmployeeID))
	if err := r.put(ctx, newAttendance, cond); err != nil {
		return attendance.Attendance{}, err
	}
	return newAttendance, nil
}

// CompareAndSwap implements attendance.AttendanceRepository.
func (r *AttendanceRepository) CompareAndSwap(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	expected := att.Version
	att.Version = expected + 1
	att.UpdatedAt = r.now().UTC()

	cond := expression.Name(attrVersion).Equal(expression.Value(expected))
	if err := r.put(ctx, att, cond); err != nil {
		return attendance.Attendance{}, err
	}
	return att, nil
}

func (r *AttendanceRepository) put(ctx context.Context, att attendance.Attendance, cond expression.ConditionBuilder) error {
	item, err := attributevalue.MarshalMap(toItem(att))
	if err != nil {
		return fmt.Errorf("failed to marshal attendance: %w", err)
	}

	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("failed to build expression: %w", err)
	}

	_, err = r.client.PutItem(ctx, &ddb.PutItemInput{
		TableName:                 aws.String(r.config.AttendanceTable),
		Item:                      item,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		if isConditionFailed(err) {
			return attendance.ErrStoreConflict
		}
		return fmt.Errorf("failed to save attendance: %w", err)
	}
	return nil
}

// ListByEmployee implements attendance.AttendanceRepository. WorkDate sorts
// lexically as YYYY-MM-DD, so the range key order is date order.
func (r *AttendanceRepository) ListByEmployee(ctx context.Context, employeeID string) ([]attendance.Attendance, error) {
	keyCond := expression.Key(attrEmployeeID).Equal(expression.Value(employeeID))
	return r.query(ctx, keyCond, nil)
}

// ListByDate implements attendance.AttendanceRepository.
func (r *AttendanceRepository) ListByDate(ctx context.Context, day civil.Date) ([]attendance.Attendance, error) {
	keyCond := expression.Key(attrWorkDate).Equal(expression.Value(day.String()))
	return r.query(ctx, keyCond, aws.String(workDateIndex))
}

func (r *AttendanceRepository) query(ctx context.Context, keyCond expression.KeyConditionBuilder, index *string) ([]attendance.Attendance, error) {
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	paginator := ddb.NewQueryPaginator(r.client, &ddb.QueryInput{
		TableName:                 aws.String(r.config.AttendanceTable),
		IndexName:                 index,
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(true),
	})

	records := make([]attendance.Attendance, 0)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query attendances: %w", err)
		}

		var items []attendanceItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal attendances: %w", err)
		}
		for _, it := range items {
			att, err := it.toAttendance()
			if err != nil {
				return nil, err
			}
			records = append(records, att)
		}
	}
	return records, nil
}

// BackfillStatus implements attendance.AttendanceRepository.
func (r *AttendanceRepository) BackfillStatus(ctx context.Context, att attendance.Attendance, status attendance.Status) error {
	key, err := r.key(att.EmployeeID, att.WorkDate)
	if err != nil {
		return fmt.Errorf("failed to marshal key: %w", err)
	}

	update := expression.Set(expression.Name(attrStatus), expression.Value(string(status))).
		Add(expression.Name(attrVersion), expression.Value(1))
	cond := expression.And(
		expression.AttributeExists(expression.Name(attrEmployeeID)),
		expression.Or(
			expression.AttributeNotExists(expression.Name(attrStatus)),
			expression.Name(attrStatus).Equal(expression.Value("")),
		),
	)
	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("failed to build expression: %w", err)
	}

	_, err = r.client.UpdateItem(ctx, &ddb.UpdateItemInput{
		TableName:                 aws.String(r.config.AttendanceTable),
		Key:                       key,
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		if isConditionFailed(err) {
			// Already classified by a concurrent writer.
			return nil
		}
		return fmt.Errorf("failed to backfill status of attendance %s: %w", att.ID, err)
	}
	return nil
}

var _ attendance.AttendanceRepository = (*AttendanceRepository)(nil)
