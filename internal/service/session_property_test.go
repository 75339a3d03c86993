package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/pu-ac-cn/auth-center/internal/model"
	"github.com/pu-ac-cn/auth-center/internal/security"
	"github.com/redis/go-redis/v9"
)

// 生成随机会话 ID
func genSessionID() gopter.Gen {
	return gen.Const(nil).Map(func(_ interface{}) string {
		return uuid.New().String()
	})
}

// 生成随机角色集合
func genRoles() gopter.Gen {
	return gen.OneConstOf(
		[]string{"dept:manager"},
		[]string{"system:admin", "dept:manager"},
		[]string{security.SuperAdminRole},
		[]string{},
	)
}

// Property: 会话存取往返一致
// *For any* 会话记录，写入后读取应还原全部字段
func TestProperty_SessionRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	defer client.Close()

	svc := NewSessionService(client, nil)
	ctx := context.Background()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("会话存取往返一致", prop.ForAll(
		func(sessionID string, userID int64, account string, roles []string) bool {
			record := &model.SessionRecord{
				SessionID: sessionID,
				UserID:    userID,
				Account:   account,
				ClientID:  "web",
				Roles:     roles,
			}

			if err := svc.Put(ctx, record, time.Hour); err != nil {
				return false
			}

			retrieved, err := svc.Get(ctx, sessionID)
			if err != nil {
				return false
			}

			if len(retrieved.Roles) != len(roles) {
				return false
			}
			for i := range roles {
				if retrieved.Roles[i] != roles[i] {
					return false
				}
			}

			return retrieved.SessionID == sessionID &&
				retrieved.UserID == userID &&
				retrieved.Account == account &&
				retrieved.ClientID == "web"
		},
		genSessionID(),
		gen.Int64Range(1, 1<<40),
		gen.AlphaString(),
		genRoles(),
	))

	properties.TestingRun(t)
}

// Property: 注销后会话不存在
// *For any* 会话，删除后读取应返回会话过期
func TestProperty_SessionEviction(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	defer client.Close()

	svc := NewSessionService(client, nil)
	ctx := context.Background()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("注销后会话不存在", prop.ForAll(
		func(sessionID string) bool {
			record := &model.SessionRecord{
				SessionID: sessionID,
				UserID:    1,
				Account:   "alice",
			}

			if err := svc.Put(ctx, record, time.Hour); err != nil {
				return false
			}

			if _, err := svc.Get(ctx, sessionID); err != nil {
				return false
			}

			if err := svc.Remove(ctx, sessionID); err != nil {
				return false
			}

			_, err := svc.Get(ctx, sessionID)
			return errors.Is(err, security.ErrSessionExpired)
		},
		genSessionID(),
	))

	properties.TestingRun(t)
}
