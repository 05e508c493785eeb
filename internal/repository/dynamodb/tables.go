package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// apiErrorCode returns the service error code of err, or "" for transport errors.
func apiErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// CreateTablesIfNotExist creates the attendance table and its day index for
// local development.
func CreateTablesIfNotExist(ctx context.Context, client *ddb.Client, cfg Config) error {
	_, err := client.DescribeTable(ctx, &ddb.DescribeTableInput{
		TableName: aws.String(cfg.AttendanceTable),
	})
	if err == nil {
		slog.Info("DynamoDB table already exists", "table", cfg.AttendanceTable)
		return nil
	}
	if apiErrorCode(err) != "ResourceNotFoundException" {
		return fmt.Errorf("failed to describe table %s: %w", cfg.AttendanceTable, err)
	}

	_, err = client.CreateTable(ctx, &ddb.CreateTableInput{
		TableName: aws.String(cfg.AttendanceTable),
		KeySchema: []dbtypes.KeySchemaElement{
			{AttributeName: aws.String(attrEmployeeID), KeyType: dbtypes.KeyTypeHash},
			{AttributeName: aws.String(attrWorkDate), KeyType: dbtypes.KeyTypeRange},
		},
		AttributeDefinitions: []dbtypes.AttributeDefinition{
			{AttributeName: aws.String(attrEmployeeID), AttributeType: dbtypes.ScalarAttributeTypeS},
			{AttributeName: aws.String(attrWorkDate), AttributeType: dbtypes.ScalarAttributeTypeS},
		},
		GlobalSecondaryIndexes: []dbtypes.GlobalSecondaryIndex{
			{
				IndexName: aws.String(workDateIndex),
				KeySchema: []dbtypes.KeySchemaElement{
					{AttributeName: aws.String(attrWorkDate), KeyType: dbtypes.KeyTypeHash},
					{AttributeName: aws.String(attrEmployeeID), KeyType: dbtypes.KeyTypeRange},
				},
				Projection: &dbtypes.Projection{ProjectionType: dbtypes.ProjectionTypeAll},
			},
		},
		BillingMode: dbtypes.BillingModePayPerRequest,
	})
	switch {
	case apiErrorCode(err) == "ResourceInUseException":
		// Created concurrently by another instance; wait for it below.
	case err != nil:
		return fmt.Errorf("failed to create table %s: %w", cfg.AttendanceTable, err)
	}

	waiter := ddb.NewTableExistsWaiter(client)
	if err := waiter.Wait(ctx, &ddb.DescribeTableInput{TableName: aws.String(cfg.AttendanceTable)}, tableWaitTimeout); err != nil {
		return fmt.Errorf("table %s not ready: %w", cfg.AttendanceTable, err)
	}
	slog.Info("DynamoDB table created", "table", cfg.AttendanceTable)
	return nil
}
