// Package seed loads the demo catalogue used by local and preview deployments.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hongminglow/nebula-be/internal/auth"
	"github.com/hongminglow/nebula-be/internal/models"
	"github.com/hongminglow/nebula-be/internal/storage"
)

type demoUser struct {
	Email    string
	Name     string
	Password string
	Role     string
}

var demoUsers = []demoUser{
	{Email: "admin@example.com", Name: "Admin", Password: "password", Role: models.RoleAdmin},
	{Email: "demo@example.com", Name: "Nebula Explorer", Password: "password", Role: models.RoleUser},
}

func ptr[T any](v T) *T { return &v }

var demoCourses = []models.Course{
	{Title: "量化分析进阶：模型与风控", Instructor: ptr("Dr. Alan Chen"), Cover: ptr("https://picsum.photos/id/180/400/300")},
	{Title: "UI/UX 深度思维体系", Instructor: ptr("Sarah Wang"), Cover: ptr("https://picsum.photos/id/181/400/300")},
	{Title: "现代物理学基础：量子力学", Instructor: ptr("Prof. Zhao"), Cover: ptr("https://picsum.photos/id/182/400/300")},
}

var demoEvents = []models.Event{
	{Title: "x²年度跨界知识论坛", Category: ptr("学术会议"), Date: ptr("11月11日"), Distance: ptr(1.2), Cover: ptr("https://picsum.photos/id/111/400/300")},
	{Title: "\"数字之境\"光影艺术展", Category: ptr("艺术展览"), Date: ptr("11月15日"), Distance: ptr(3.5), Cover: ptr("https://picsum.photos/id/122/400/300")},
	{Title: "独立创作者交流周", Category: ptr("同城聚会"), Date: ptr("11月20日"), Distance: ptr(0.8), Cover: ptr("https://picsum.photos/id/133/400/300")},
}

var demoGroups = []models.Group{
	{Name: "量子计算研讨会", Icon: ptr("⚡"), MembersCount: 1200},
	{Name: "生成式艺术实验室", Icon: ptr("🎨"), MembersCount: 840},
	{Name: "现代哲学沙龙", Icon: ptr("🏛️"), MembersCount: 3100},
}

var demoContent = []models.Content{
	{Title: "DeepSeek-R1 的推理逻辑", Category: ptr("生成式AI"), Views: 12000, Likes: 860},
	{Title: "碳基与硅基生命的边界", Category: ptr("艺术哲学"), Views: 8400, Likes: 510},
	{Title: "空间计算中的交互革命", Category: ptr("数字孪生"), Views: 6200, Likes: 330},
}

// Run inserts demo users and, when the catalogue is empty, demo courses,
// events, groups and content. Running it twice changes nothing.
func Run(ctx context.Context, store storage.Store, hasher *auth.PasswordHasher, logger *slog.Logger) error {
	var authorID *string
	for _, u := range demoUsers {
		hash, err := hasher.Hash(u.Password)
		if err != nil {
			return fmt.Errorf("hash seed password: %w", err)
		}
		created, err := store.CreateUser(ctx, models.User{
			Email:        u.Email,
			Name:         u.Name,
			Role:         u.Role,
			PasswordHash: hash,
		})
		switch {
		case errors.Is(err, storage.ErrAlreadyExists):
			continue
		case err != nil:
			return fmt.Errorf("insert seed user %s: %w", u.Email, err)
		}
		logger.Info("seeded user", "email", created.Email, "role", created.Role)
		if authorID == nil {
			authorID = &created.ID
		}
	}

	courses, err := store.ListCourses(ctx, storage.Page{Limit: 1})
	if err != nil {
		return fmt.Errorf("check courses: %w", err)
	}
	if len(courses) > 0 {
		return nil
	}

	for _, c := range demoCourses {
		if _, err := store.CreateCourse(ctx, c); err != nil {
			return fmt.Errorf("insert seed course: %w", err)
		}
	}
	for _, e := range demoEvents {
		if _, err := store.CreateEvent(ctx, e); err != nil {
			return fmt.Errorf("insert seed event: %w", err)
		}
	}
	for _, g := range demoGroups {
		if _, err := store.CreateGroup(ctx, g); err != nil {
			return fmt.Errorf("insert seed group: %w", err)
		}
	}
	for _, c := range demoContent {
		c.AuthorID = authorID
		if _, err := store.CreateContent(ctx, c); err != nil {
			return fmt.Errorf("insert seed content: %w", err)
		}
	}
	logger.Info("seeded demo catalogue",
		"courses", len(demoCourses), "events", len(demoEvents),
		"groups", len(demoGroups), "content", len(demoContent))
	return nil
}
