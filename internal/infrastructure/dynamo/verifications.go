package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/otp-verify-api/internal/domain"
)

// VerificationRepo manages the per-phone OTP challenge records.
// PK: phone_number — CreatePending overwrites any previous challenge, so
// the latest send always wins.
type VerificationRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewVerificationRepo(client *dynamodb.Client, tableName string) *VerificationRepo {
	return &VerificationRepo{client: client, tableName: tableName}
}

func (r *VerificationRepo) CreatePending(ctx context.Context, v *domain.OTPVerification) error {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return fmt.Errorf("marshal verification: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// GetPending returns the current record for a phone if its stored status is
// PENDING. Absence — no record at all, or a record already in a terminal
// state — is reported as domain.ErrNotFound; callers treat that as a normal
// outcome, not a fault.
func (r *VerificationRepo) GetPending(ctx context.Context, phone string) (*domain.OTPVerification, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("phone_number", phone),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("no pending verification: %w", domain.ErrNotFound)
	}
	var v domain.OTPVerification
	if err := attributevalue.UnmarshalMap(out.Item, &v); err != nil {
		return nil, err
	}
	if v.Status != domain.StatusPending {
		return nil, fmt.Errorf("no pending verification: %w", domain.ErrNotFound)
	}
	return &v, nil
}

// UpdateStatus sets the record's status; verifiedAt is stamped only for the
// VERIFIED transition.
func (r *VerificationRepo) UpdateStatus(ctx context.Context, phone string, status domain.VerificationStatus, verifiedAt *time.Time) error {
	updates := map[string]interface{}{
		"verification_status": string(status),
	}
	if verifiedAt != nil {
		updates["verified_at"] = verifiedAt.UTC()
	}
	return r.update(ctx, phone, updates)
}

// IncrementAttempts adds one to attempts_count atomically.
func (r *VerificationRepo) IncrementAttempts(ctx context.Context, phone string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              strKey("phone_number", phone),
		UpdateExpression: aws.String("SET attempts_count = attempts_count + :one, updated_at = :u"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
			":u":   &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
		},
	})
	return err
}

func (r *VerificationRepo) update(ctx context.Context, phone string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("phone_number", phone),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}
