package dynamo

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/otp-verify-api/internal/domain"
)

// AttemptRepo is the append-only attempt ledger. Rows are only ever
// inserted; the phone_number-index GSI (hash phone_number, range created_at)
// serves the rate limiter's windowed counts.
type AttemptRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewAttemptRepo(client *dynamodb.Client, tableName string) *AttemptRepo {
	return &AttemptRepo{client: client, tableName: tableName}
}

func (r *AttemptRepo) Put(ctx context.Context, a *domain.OTPAttempt) error {
	item, err := attributevalue.MarshalMap(a)
	if err != nil {
		return fmt.Errorf("marshal attempt: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// CountSendsSince counts SEND rows for a phone with created_at >= since,
// excluding BLOCKED rows so a blocked caller cannot extend their own block.
func (r *AttemptRepo) CountSendsSince(ctx context.Context, phone string, since time.Time) (int, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("phone_number-index"),
		KeyConditionExpression: aws.String("phone_number = :p AND created_at >= :since"),
		FilterExpression:       aws.String("attempt_type = :send AND #s <> :blocked"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":p":       &types.AttributeValueMemberS{Value: phone},
			":since":   &types.AttributeValueMemberN{Value: strconv.FormatInt(since.Unix(), 10)},
			":send":    &types.AttributeValueMemberS{Value: string(domain.AttemptSend)},
			":blocked": &types.AttributeValueMemberS{Value: string(domain.AttemptBlocked)},
		},
		Select: types.SelectCount,
	})
	if err != nil {
		return 0, err
	}
	return int(out.Count), nil
}
