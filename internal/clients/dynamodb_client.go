package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/spacesedan/centiment-forwarder/internal/models"
)

type dynamoAPI interface {
	ListTables(ctx context.Context, params *dynamodb.ListTablesInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoDB writes rows to the table <dataset>.<table>, partitioned on
// insert_id. Puts are conditional on the insert ID being new.
type DynamoDB struct {
	Client dynamoAPI
}

// NewDynamoDB creates a DynamoDB warehouse. A non-empty endpoint overrides
// the service endpoint, e.g. for DynamoDB Local.
func NewDynamoDB(awsCfg aws.Config, endpoint string) *DynamoDB {
	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return &DynamoDB{Client: client}
}

// DynamoTableName returns the DynamoDB table a dataset/table pair maps to.
func DynamoTableName(dataset, table string) string {
	return dataset + "." + table
}

// DatasetExists reports whether the service is reachable. DynamoDB has no
// dataset level.
func (d *DynamoDB) DatasetExists(ctx context.Context, dataset string) error {
	if _, err := d.Client.ListTables(ctx, &dynamodb.ListTablesInput{Limit: aws.Int32(1)}); err != nil {
		return fmt.Errorf("[DynamoDB] list tables: %w", err)
	}
	return nil
}

func (d *DynamoDB) TableExists(ctx context.Context, dataset, table string) error {
	name := DynamoTableName(dataset, table)

	out, err := d.Client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(name)})
	if err != nil {
		return fmt.Errorf("[DynamoDB] table %s: %w", name, err)
	}
	if out.Table != nil && out.Table.TableStatus != types.TableStatusActive {
		return fmt.Errorf("[DynamoDB] table %s is %s", name, out.Table.TableStatus)
	}
	return nil
}

func (d *DynamoDB) Insert(ctx context.Context, dataset, table string, row models.InsertRow) error {
	name := DynamoTableName(dataset, table)

	item, err := attributevalue.MarshalMap(row.Body)
	if err != nil {
		return fmt.Errorf("[DynamoDB] failed to marshal row %s: %w", row.InsertID, err)
	}
	item["insert_id"] = &types.AttributeValueMemberS{Value: row.InsertID}

	_, err = d.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(name),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(insert_id)"),
	})
	if err != nil {
		var conditionErr *types.ConditionalCheckFailedException
		if errors.As(err, &conditionErr) {
			slog.Debug("[DynamoDB] Duplicate insert ignored", slog.String("insert_id", row.InsertID))
			return nil
		}
		return fmt.Errorf("[DynamoDB] put into %s: %w", name, err)
	}

	return nil
}
