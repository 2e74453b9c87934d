package services

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/roomloop/chat_backend/errs"
	"github.com/roomloop/chat_backend/utils"
)

// TokensService issues access/refresh token pairs and keeps the currently
// valid refresh token per user in Redis, expiring with the token itself.
type TokensService struct {
	redis *redis.Client
}

func NewTokensService(client *redis.Client) *TokensService {
	return &TokensService{redis: client}
}

func refreshKey(userID uint) string {
	return fmt.Sprintf("refresh_token:%d", userID)
}

// GenerateTokens issues a fresh access/refresh pair and stores the refresh
// token, replacing whatever was stored before.
func (s *TokensService) GenerateTokens(ctx context.Context, userID uint) (accessToken, refreshToken string, err error) {
	accessToken, err = utils.GenerateToken(userID, utils.AccessTokenTTL)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = utils.GenerateToken(userID, utils.RefreshTokenTTL)
	if err != nil {
		return "", "", err
	}

	err = s.redis.Set(ctx, refreshKey(userID), refreshToken, utils.RefreshTokenTTL).Err()
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// ValidateRefreshToken checks the signature and that the token is the one
// currently on record for its user, then returns the user id.
func (s *TokensService) ValidateRefreshToken(ctx context.Context, token string) (uint, error) {
	userID, err := utils.ParseToken(token)
	if err != nil {
		return 0, errs.NewNotAuthenticated()
	}

	stored, err := s.redis.Get(ctx, refreshKey(userID)).Result()
	if err != nil || stored != token {
		return 0, errs.NewNotAuthenticated()
	}

	return userID, nil
}
