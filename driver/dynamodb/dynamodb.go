/*
 * Copyright © 2025 Luandevpro, All rights reserved.
 */

// Package dynamodb persists entities in a single DynamoDB table using
// the PK/SK single-table layout. Index templates from the entity
// metadata decide the key shape; entities without templates fall back
// to "<TARGET>#<primary key>" for both keys.
package dynamodb

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/luandevpro/typeorm/driver"
	"github.com/luandevpro/typeorm/errors"
	"github.com/luandevpro/typeorm/metadata"
)

func init() {
	driver.Register("dynamodb", func() driver.Driver { return New() })
}

const (
	attrPK         = "PK"
	attrSK         = "SK"
	attrEntityType = "EntityType"

	maxRetries   = 3
	retryBackoff = 200 * time.Millisecond
)

var macroPattern = regexp.MustCompile(`\{([^}]+)\}`)

// Driver implements driver.Driver over the AWS SDK DynamoDB client.
type Driver struct {
	client   *sdk.Client
	table    string
	registry driver.Registry
}

// New creates an unconnected dynamodb driver.
func New() *Driver {
	return &Driver{}
}

// SetRegistry stores the connection view for logging.
func (d *Driver) SetRegistry(r driver.Registry) {
	d.registry = r
}

// Connect initializes the DynamoDB client. Static credentials from the
// options take precedence over the default AWS credential chain.
func (d *Driver) Connect(ctx context.Context, opts *driver.Options) error {
	if opts == nil || opts.Table == "" {
		return fmt.Errorf("dynamodb: table name is required")
	}

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(opts.Region),
	}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return fmt.Errorf("dynamodb: failed to load AWS configuration: %w", err)
	}

	d.client = sdk.NewFromConfig(cfg)
	d.table = opts.Table
	d.logger().Debug("dynamodb client initialized", "table", d.table, "region", opts.Region)
	return nil
}

// Disconnect drops the client. The SDK client holds no sockets of its
// own to close.
func (d *Driver) Disconnect(ctx context.Context) error {
	d.client = nil
	return nil
}

// EnsureSchema creates the backing table on first use. All entities of
// a connection share the one table, so later calls reduce to a describe.
func (d *Driver) EnsureSchema(ctx context.Context, m *metadata.EntityMetadata) error {
	if d.client == nil {
		return errors.ErrNotConnected
	}

	describe := &sdk.DescribeTableInput{TableName: &d.table}
	_, err := d.client.DescribeTable(ctx, describe)
	if err == nil {
		return nil
	}
	var notFound *types.ResourceNotFoundException
	if !stderrors.As(err, &notFound) {
		return fmt.Errorf("dynamodb: failed to describe table %s: %w", d.table, err)
	}

	_, err = d.client.CreateTable(ctx, &sdk.CreateTableInput{
		TableName: &d.table,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(attrPK), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String(attrSK), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(attrPK), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String(attrSK), KeyType: types.KeyTypeRange},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		var inUse *types.ResourceInUseException
		if stderrors.As(err, &inUse) {
			return nil
		}
		return fmt.Errorf("dynamodb: failed to create table %s: %w", d.table, err)
	}

	waiter := sdk.NewTableExistsWaiter(d.client)
	if err := waiter.Wait(ctx, describe, 2*time.Minute); err != nil {
		return fmt.Errorf("dynamodb: table %s not ready: %w", d.table, err)
	}
	d.logger().Info("created dynamodb table", "table", d.table)
	return nil
}

// Insert stores a new row under its expanded PK/SK.
func (d *Driver) Insert(ctx context.Context, m *metadata.EntityMetadata, row driver.Row) error {
	if d.client == nil {
		return errors.ErrNotConnected
	}

	item, err := itemFromRow(m, row)
	if err != nil {
		return err
	}
	if _, err := d.client.PutItem(ctx, &sdk.PutItemInput{
		TableName: &d.table,
		Item:      item,
	}); err != nil {
		return fmt.Errorf("dynamodb: put item failed: %w", err)
	}
	return nil
}

// Update rewrites an existing row. A missing row fails the condition
// and surfaces as a not-found error.
func (d *Driver) Update(ctx context.Context, m *metadata.EntityMetadata, key any, row driver.Row) error {
	if d.client == nil {
		return errors.ErrNotConnected
	}

	item, err := itemFromRow(m, row)
	if err != nil {
		return err
	}
	cond := fmt.Sprintf("attribute_exists(%s)", attrPK)
	_, err = d.client.PutItem(ctx, &sdk.PutItemInput{
		TableName:           &d.table,
		Item:                item,
		ConditionExpression: &cond,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if stderrors.As(err, &cfe) {
			return errors.NewNotFoundError(string(m.Target), fmt.Sprint(key))
		}
		return fmt.Errorf("dynamodb: conditional put failed: %w", err)
	}
	return nil
}

// Remove deletes the row identified by the primary key value.
func (d *Driver) Remove(ctx context.Context, m *metadata.EntityMetadata, key any) error {
	if d.client == nil {
		return errors.ErrNotConnected
	}

	keyMap, err := keyFromValue(m, key)
	if err != nil {
		return err
	}
	cond := fmt.Sprintf("attribute_exists(%s)", attrPK)
	_, err = d.client.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName:           &d.table,
		Key:                 keyMap,
		ConditionExpression: &cond,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if stderrors.As(err, &cfe) {
			return errors.NewNotFoundError(string(m.Target), fmt.Sprint(key))
		}
		return fmt.Errorf("dynamodb: delete item failed: %w", err)
	}
	return nil
}

// FindOne loads the row identified by the primary key value, or
// (nil, nil) when no item matches.
func (d *Driver) FindOne(ctx context.Context, m *metadata.EntityMetadata, key any) (driver.Row, error) {
	if d.client == nil {
		return nil, errors.ErrNotConnected
	}

	keyMap, err := keyFromValue(m, key)
	if err != nil {
		return nil, err
	}
	out, err := d.client.GetItem(ctx, &sdk.GetItemInput{
		TableName: &d.table,
		Key:       keyMap,
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb: get item failed: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}
	return rowFromItem(out.Item)
}

// Find loads the rows of the entity type matching the criteria. When
// the criteria pin down the partition key the lookup runs as a Query on
// that partition; otherwise it falls back to a paginated Scan. Both
// paths filter server-side on the EntityType attribute and the criteria
// columns.
func (d *Driver) Find(ctx context.Context, m *metadata.EntityMetadata, criteria driver.Row) ([]driver.Row, error) {
	if d.client == nil {
		return nil, errors.ErrNotConnected
	}

	filter := fmt.Sprintf("%s = :et", attrEntityType)
	values := map[string]types.AttributeValue{
		":et": &types.AttributeValueMemberS{Value: string(m.Target)},
	}
	var names map[string]string
	if len(criteria) > 0 {
		frag, n, v, err := criteriaFilter(criteria)
		if err != nil {
			return nil, err
		}
		filter += " AND " + frag
		names = n
		for k, av := range v {
			values[k] = av
		}
	}

	pkT, _, err := keyTemplates(m)
	if err != nil {
		return nil, err
	}
	if pk, ok := expandStrict(pkT, criteria); ok {
		return d.queryRows(ctx, pk, filter, names, values)
	}
	return d.scanRows(ctx, filter, names, values)
}

// queryRows pages through one partition.
func (d *Driver) queryRows(ctx context.Context, pk, filter string, names map[string]string, values map[string]types.AttributeValue) ([]driver.Row, error) {
	keyCond := fmt.Sprintf("%s = :pk", attrPK)
	values[":pk"] = &types.AttributeValueMemberS{Value: pk}
	input := &sdk.QueryInput{
		TableName:                 &d.table,
		KeyConditionExpression:    &keyCond,
		FilterExpression:          &filter,
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	}

	var out []driver.Row
	for {
		res, err := queryWithRetry(ctx, "query", func() (*sdk.QueryOutput, error) {
			return d.client.Query(ctx, input)
		})
		if err != nil {
			return nil, err
		}
		for _, item := range res.Items {
			row, err := rowFromItem(item)
			if err != nil {
				return nil, err
			}
			out = append(out, row)
		}
		if len(res.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = res.LastEvaluatedKey
	}
	return out, nil
}

// scanRows pages through the whole table.
func (d *Driver) scanRows(ctx context.Context, filter string, names map[string]string, values map[string]types.AttributeValue) ([]driver.Row, error) {
	input := &sdk.ScanInput{
		TableName:                 &d.table,
		FilterExpression:          &filter,
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	}

	var out []driver.Row
	for {
		res, err := queryWithRetry(ctx, "scan", func() (*sdk.ScanOutput, error) {
			return d.client.Scan(ctx, input)
		})
		if err != nil {
			return nil, err
		}
		for _, item := range res.Items {
			row, err := rowFromItem(item)
			if err != nil {
				return nil, err
			}
			out = append(out, row)
		}
		if len(res.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = res.LastEvaluatedKey
	}
	return out, nil
}

// queryWithRetry executes one page call with exponential backoff on
// retryable DynamoDB errors.
func queryWithRetry[T any](ctx context.Context, op string, call func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		out, err := call()
		if err == nil {
			return out, nil
		}
		lastErr = err

		if !isRetryableError(err) {
			return zero, fmt.Errorf("dynamodb: %s failed: %w", op, err)
		}
		if attempt < maxRetries {
			backoff := time.Duration(attempt+1) * retryBackoff
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return zero, fmt.Errorf("dynamodb: %s failed after %d retries: %w", op, maxRetries, lastErr)
}

// isRetryableError reports whether a DynamoDB error is worth retrying.
func isRetryableError(err error) bool {
	var throughput *types.ProvisionedThroughputExceededException
	if stderrors.As(err, &throughput) {
		return true
	}
	var limit *types.RequestLimitExceeded
	if stderrors.As(err, &limit) {
		return true
	}
	var internal *types.InternalServerError
	if stderrors.As(err, &internal) {
		return true
	}
	if awsErr, ok := err.(interface{ IsRetryable() bool }); ok {
		return awsErr.IsRetryable()
	}
	return false
}

func (d *Driver) logger() *slog.Logger {
	if d.registry != nil {
		return d.registry.Logger()
	}
	return slog.Default()
}

// keyTemplates returns the PK and SK templates of an entity. Entities
// without explicit index templates use "<TARGET>#{<primary>}" for both.
func keyTemplates(m *metadata.EntityMetadata) (string, string, error) {
	if len(m.Indexes) > 0 {
		pkT, okPK := m.Indexes[attrPK]
		skT, okSK := m.Indexes[attrSK]
		if !okPK || !okSK || pkT == "" || skT == "" {
			return "", "", fmt.Errorf("dynamodb: index templates for %s must define PK and SK", m.Target)
		}
		return pkT, skT, nil
	}
	pc := m.PrimaryColumn()
	if pc == nil {
		return "", "", errors.NewValidationError("columns", "metadata declares no primary column")
	}
	t := fmt.Sprintf("%s#{%s}", strings.ToUpper(string(m.Target)), pc.Name)
	return t, t, nil
}

// expandRowMacros replaces {column} macros in a template with values
// from the row. Missing values expand to the empty string.
func expandRowMacros(template string, row driver.Row) string {
	return macroPattern.ReplaceAllStringFunc(template, func(macro string) string {
		name := strings.Trim(macro, "{}")
		v, ok := row[name]
		if !ok || v == nil {
			return ""
		}
		return fmt.Sprint(v)
	})
}

// expandKeyMacros replaces every macro in a template with the literal
// key value.
func expandKeyMacros(template string, key any) string {
	return macroPattern.ReplaceAllString(template, fmt.Sprint(key))
}

// expandStrict expands template macros from the criteria and reports
// whether every macro resolved to a non-empty value. A template without
// macros always resolves.
func expandStrict(template string, criteria driver.Row) (string, bool) {
	complete := true
	out := macroPattern.ReplaceAllStringFunc(template, func(macro string) string {
		name := strings.Trim(macro, "{}")
		v, ok := criteria[name]
		if !ok || v == nil {
			complete = false
			return ""
		}
		s := fmt.Sprint(v)
		if s == "" {
			complete = false
		}
		return s
	})
	return out, complete && out != ""
}

// criteriaFilter renders the criteria as an equality conjunction with
// placeholder attribute names, in stable column order.
func criteriaFilter(criteria driver.Row) (string, map[string]string, map[string]types.AttributeValue, error) {
	keys := make([]string, 0, len(criteria))
	for k := range criteria {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	conds := make([]string, 0, len(keys))
	names := make(map[string]string, len(keys))
	values := make(map[string]types.AttributeValue, len(keys))
	for i, k := range keys {
		av, err := attributevalue.Marshal(criteria[k])
		if err != nil {
			return "", nil, nil, fmt.Errorf("dynamodb: failed to marshal criteria %s: %w", k, err)
		}
		n := fmt.Sprintf("#c%d", i)
		v := fmt.Sprintf(":c%d", i)
		names[n] = k
		values[v] = av
		conds = append(conds, fmt.Sprintf("%s = %s", n, v))
	}
	return strings.Join(conds, " AND "), names, values, nil
}

func keyFromRow(m *metadata.EntityMetadata, row driver.Row) (map[string]types.AttributeValue, error) {
	pkT, skT, err := keyTemplates(m)
	if err != nil {
		return nil, err
	}
	pk := expandRowMacros(pkT, row)
	sk := expandRowMacros(skT, row)
	if pk == "" || sk == "" {
		return nil, fmt.Errorf("dynamodb: expanded key for %s is empty", m.Target)
	}
	return map[string]types.AttributeValue{
		attrPK: &types.AttributeValueMemberS{Value: pk},
		attrSK: &types.AttributeValueMemberS{Value: sk},
	}, nil
}

// keyFromValue builds the PK/SK attribute map for a lookup key. A
// scalar key substitutes into every macro slot, which fits the default
// single-object scheme. Row and map keys expand macros per column for
// entities with composite templates.
func keyFromValue(m *metadata.EntityMetadata, key any) (map[string]types.AttributeValue, error) {
	pkT, skT, err := keyTemplates(m)
	if err != nil {
		return nil, err
	}
	var pk, sk string
	switch k := key.(type) {
	case driver.Row:
		pk = expandRowMacros(pkT, k)
		sk = expandRowMacros(skT, k)
	case map[string]any:
		pk = expandRowMacros(pkT, k)
		sk = expandRowMacros(skT, k)
	default:
		pk = expandKeyMacros(pkT, key)
		sk = expandKeyMacros(skT, key)
	}
	if pk == "" || sk == "" {
		return nil, fmt.Errorf("dynamodb: expanded key for %s is empty", m.Target)
	}
	return map[string]types.AttributeValue{
		attrPK: &types.AttributeValueMemberS{Value: pk},
		attrSK: &types.AttributeValueMemberS{Value: sk},
	}, nil
}

// itemFromRow marshals a row and stamps the key and entity type
// attributes onto it.
func itemFromRow(m *metadata.EntityMetadata, row driver.Row) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(map[string]any(row))
	if err != nil {
		return nil, fmt.Errorf("dynamodb: failed to marshal row: %w", err)
	}
	keyMap, err := keyFromRow(m, row)
	if err != nil {
		return nil, err
	}
	for name, v := range keyMap {
		item[name] = v
	}
	item[attrEntityType] = &types.AttributeValueMemberS{Value: string(m.Target)}
	return item, nil
}

// rowFromItem strips the key and entity type attributes and unmarshals
// the remainder into a row.
func rowFromItem(item map[string]types.AttributeValue) (driver.Row, error) {
	delete(item, attrPK)
	delete(item, attrSK)
	delete(item, attrEntityType)

	var row map[string]any
	if err := attributevalue.UnmarshalMap(item, &row); err != nil {
		return nil, fmt.Errorf("dynamodb: failed to unmarshal item: %w", err)
	}
	return driver.Row(row), nil
}
