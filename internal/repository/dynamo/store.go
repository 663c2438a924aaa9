// Package dynamo stores seasons in an AWS DynamoDB table keyed by the "Id" attribute.
// It also provisions that table on startup when it does not exist yet.
package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"

	"github.com/dmv-footballheadz/season-api/internal/models"
	"github.com/dmv-footballheadz/season-api/internal/repository"
)

// KeyAttribute is the hash key of the season table.
const KeyAttribute = "Id"

// yearAttribute is the attribute the year filter is pushed down on.
const yearAttribute = "Year"

// API is the subset of the DynamoDB client the store uses. *dynamodb.Client satisfies it.
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// Store is a SeasonRepository backed by one DynamoDB table.
type Store struct {
	client API
	table  string
	log    zerolog.Logger
}

var _ repository.SeasonRepository = (*Store)(nil)

// NewStore returns a store reading and writing the given table.
func NewStore(client API, table string, logger zerolog.Logger) *Store {
	return &Store{
		client: client,
		table:  table,
		log:    logger.With().Str("component", "dynamo-store").Str("table", table).Logger(),
	}
}

// Get loads the season stored under id.
func (s *Store) Get(ctx context.Context, id string) (models.Season, bool, error) {
	s.log.Trace().Str("id", id).Msg("get item")
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       key(id),
	})
	if err != nil {
		return models.Season{}, false, fmt.Errorf("get season %q: %w", id, err)
	}
	// GetItem does not return an error for a missing key, just an empty Item map.
	if len(out.Item) == 0 {
		return models.Season{}, false, nil
	}

	// UnmarshalMap fills the struct using its `dynamodbav` tags, much like encoding/json.
	var season models.Season
	if err := attributevalue.UnmarshalMap(out.Item, &season); err != nil {
		return models.Season{}, false, fmt.Errorf("decode season %q: %w", id, err)
	}
	return season, true, nil
}

// Put writes the whole season, replacing any item with the same ID.
func (s *Store) Put(ctx context.Context, season models.Season) error {
	s.log.Trace().Str("id", season.ID).Msg("put item")
	item, err := attributevalue.MarshalMap(season)
	if err != nil {
		return fmt.Errorf("encode season %q: %w", season.ID, err)
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("put season %q: %w", season.ID, err)
	}
	return nil
}

// Delete removes the item stored under id.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.log.Trace().Str("id", id).Msg("delete item")
	if _, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       key(id),
	}); err != nil {
		return fmt.Errorf("delete season %q: %w", id, err)
	}
	return nil
}

// Scan reads the whole table, following LastEvaluatedKey until every page is loaded.
// A year filter is sent to DynamoDB as a FilterExpression.
func (s *Store) Scan(ctx context.Context, filter repository.Filter) ([]models.Season, error) {
	input, err := scanInput(s.table, filter)
	if err != nil {
		return nil, err
	}

	// A single Scan call returns at most 1 MB of data. The paginator re-issues the request
	// with ExclusiveStartKey = LastEvaluatedKey until DynamoDB reports no more pages.
	var seasons []models.Season
	pages := 0
	paginator := dynamodb.NewScanPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan seasons: %w", err)
		}
		var batch []models.Season
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("decode scanned seasons: %w", err)
		}
		seasons = append(seasons, batch...)
		pages++
	}
	s.log.Trace().Int("pages", pages).Int("items", len(seasons)).Str("year", filter.Year).Msg("scan complete")
	return seasons, nil
}

func scanInput(table string, filter repository.Filter) (*dynamodb.ScanInput, error) {
	input := &dynamodb.ScanInput{TableName: aws.String(table)}
	if filter.IsZero() {
		return input, nil
	}

	// The expression builder generates placeholder names (#0) and values (:0), so "Year"
	// never collides with a DynamoDB reserved word.
	expr, err := expression.NewBuilder().
		WithFilter(expression.Name(yearAttribute).Equal(expression.Value(filter.Year))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build scan filter: %w", err)
	}
	input.FilterExpression = expr.Filter()
	input.ExpressionAttributeNames = expr.Names()
	input.ExpressionAttributeValues = expr.Values()
	return input, nil
}

func key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		KeyAttribute: &types.AttributeValueMemberS{Value: id},
	}
}

// IsNotFound reports whether err is DynamoDB's ResourceNotFoundException.
func IsNotFound(err error) bool {
	var nf *types.ResourceNotFoundException
	return errors.As(err, &nf)
}
