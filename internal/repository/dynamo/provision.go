package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Provisioned throughput used when the table is not billed on demand.
const (
	defaultReadCapacity  int64 = 1
	defaultWriteCapacity int64 = 1
)

// TableOptions controls how EnsureTable creates the season table.
type TableOptions struct {
	OnDemand bool
}

// EnsureTable creates the season table unless DynamoDB already knows about it.
// A table in any state (ACTIVE, CREATING, UPDATING, DELETING) is left untouched; only a
// ResourceNotFoundException from DescribeTable triggers CreateTable.
// It reports whether a CreateTable request was issued.
func (s *Store) EnsureTable(ctx context.Context, opts TableOptions) (bool, error) {
	out, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(s.table)})
	if err == nil {
		status := types.TableStatus("")
		if out.Table != nil {
			status = out.Table.TableStatus
		}
		s.log.Info().Str("status", string(status)).Msg("table already exists")
		return false, nil
	}
	if !IsNotFound(err) {
		return false, fmt.Errorf("describe table %s: %w", s.table, err)
	}

	created, err := s.client.CreateTable(ctx, createTableInput(s.table, opts))
	if err != nil {
		return false, fmt.Errorf("create table %s: %w", s.table, err)
	}
	status := types.TableStatus("")
	if created.TableDescription != nil {
		status = created.TableDescription.TableStatus
	}
	s.log.Info().Str("status", string(status)).Msg("table created")
	return true, nil
}

func createTableInput(table string, opts TableOptions) *dynamodb.CreateTableInput {
	input := &dynamodb.CreateTableInput{
		TableName: aws.String(table),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(KeyAttribute), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(KeyAttribute), KeyType: types.KeyTypeHash},
		},
	}
	if opts.OnDemand {
		input.BillingMode = types.BillingModePayPerRequest
		return input
	}
	input.BillingMode = types.BillingModeProvisioned
	input.ProvisionedThroughput = &types.ProvisionedThroughput{
		ReadCapacityUnits:  aws.Int64(defaultReadCapacity),
		WriteCapacityUnits: aws.Int64(defaultWriteCapacity),
	}
	return input
}
