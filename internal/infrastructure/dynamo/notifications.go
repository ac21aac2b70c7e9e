package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/readysetcloud/newsletter-service-sub010/internal/domain"
)

// notificationRecord is the stored shape: the domain notification plus the
// table's composite keys and the feed-index keys.
type notificationRecord struct {
	PK     string `dynamodbav:"pk"`
	SK     string `dynamodbav:"sk"`
	GSI1PK string `dynamodbav:"gsi1_pk"`
	GSI1SK string `dynamodbav:"gsi1_sk"`
	domain.Notification
}

// NotificationRepo provides typed DynamoDB operations for the notifications table.
type NotificationRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewNotificationRepo(client *dynamodb.Client, tableName string) *NotificationRepo {
	return &NotificationRepo{client: client, tableName: tableName}
}

// Put durably writes a notification. The record is keyed by tenant+user on the
// main table and by tenant on the feed index so both access paths work.
func (r *NotificationRepo) Put(ctx context.Context, n *domain.Notification) error {
	rec := notificationRecord{
		PK:           partitionKey(n.TenantID, n.UserID),
		SK:           sortKey(n.Timestamp, n.ID),
		GSI1PK:       feedPartitionKey(n.TenantID),
		GSI1SK:       feedSortKey(n.Timestamp, n.ID),
		Notification: *n,
	}
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("put notification: %w", err)
	}
	return nil
}

// ListByUser returns a user's notifications, newest first. When unreadOnly is
// set, read notifications are filtered out server-side.
func (r *NotificationRepo) ListByUser(ctx context.Context, tenantID, userID string, unreadOnly bool) ([]domain.Notification, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("pk = :pk AND begins_with(sk, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: partitionKey(tenantID, userID)},
			":prefix": &types.AttributeValueMemberS{Value: skPrefix},
		},
		ScanIndexForward: aws.Bool(false),
	}
	if unreadOnly {
		input.FilterExpression = aws.String("#st = :unread")
		input.ExpressionAttributeNames = map[string]string{"#st": "status"}
		input.ExpressionAttributeValues[":unread"] = &types.AttributeValueMemberS{Value: string(domain.StatusUnread)}
	}

	out, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("query user notifications: %w", err)
	}
	return unmarshalNotifications(out.Items)
}

// ListTenantFeed returns the tenant-wide feed via the feed index, newest first.
func (r *NotificationRepo) ListTenantFeed(ctx context.Context, tenantID string, limit int32) ([]domain.Notification, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(feedIndexName),
		KeyConditionExpression: aws.String("gsi1_pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: feedPartitionKey(tenantID)},
		},
		ScanIndexForward: aws.Bool(false),
	}
	if limit > 0 {
		input.Limit = aws.Int32(limit)
	}

	out, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("query tenant feed: %w", err)
	}
	return unmarshalNotifications(out.Items)
}

// Get finds a single notification by id within a tenant+user partition.
// The sort key embeds the event timestamp, so lookup by id alone is a
// partition query with an id filter.
func (r *NotificationRepo) Get(ctx context.Context, tenantID, userID, notificationID string) (*domain.Notification, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("pk = :pk AND begins_with(sk, :prefix)"),
		FilterExpression:       aws.String("notification_id = :id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: partitionKey(tenantID, userID)},
			":prefix": &types.AttributeValueMemberS{Value: skPrefix},
			":id":     &types.AttributeValueMemberS{Value: notificationID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query notification: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, domain.ErrNotFound
	}
	var rec notificationRecord
	if err := attributevalue.UnmarshalMap(out.Items[0], &rec); err != nil {
		return nil, err
	}
	return &rec.Notification, nil
}

// MarkAsRead flips a notification's status to read and returns the updated record.
// Status is the only attribute this repo ever updates in place.
func (r *NotificationRepo) MarkAsRead(ctx context.Context, tenantID, userID, notificationID string) (*domain.Notification, error) {
	n, err := r.Get(ctx, tenantID, userID, notificationID)
	if err != nil {
		return nil, err
	}

	ue, err := buildUpdateExpr(map[string]interface{}{"status": string(domain.StatusRead)})
	if err != nil {
		return nil, err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       compositeKey("pk", partitionKey(tenantID, userID), "sk", sortKey(n.Timestamp, n.ID)),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if err != nil {
		return nil, fmt.Errorf("mark notification read: %w", err)
	}
	n.Status = domain.StatusRead
	return n, nil
}

func unmarshalNotifications(items []map[string]types.AttributeValue) ([]domain.Notification, error) {
	var recs []notificationRecord
	if err := attributevalue.UnmarshalListOfMaps(items, &recs); err != nil {
		return nil, err
	}
	notifications := make([]domain.Notification, 0, len(recs))
	for _, rec := range recs {
		notifications = append(notifications, rec.Notification)
	}
	return notifications, nil
}
