package service

import (
	"context"
	"errors"
	"testing"

	"attendance-leave/backend/internal/model"
)

type fakeUploader struct {
	calls map[string]string // publicID → data
	err   error
}

func (f *fakeUploader) Upload(_ context.Context, data, publicID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.calls[publicID] = data
	return "https://res.example.com/" + publicID + ".png", nil
}

func TestUserService_GetProfile(t *testing.T) {
	r := newTestRepos()
	r.addUser("u1", model.RoleUser)
	svc := NewUserService(r.repo, nil, nopLogger)

	resp, err := svc.GetProfile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetProfile 应成功: %v", err)
	}
	if resp.ID != "u1" || resp.Email != "u1@example.com" {
		t.Errorf("用户信息错误: %+v", resp)
	}

	if _, err := svc.GetProfile(context.Background(), "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}

func TestUserService_ListUsers(t *testing.T) {
	r := newTestRepos()
	r.addUser("b", model.RoleUser)
	r.addUser("a", model.RoleUser)
	r.addUser("admin", model.RoleAdmin)
	svc := NewUserService(r.repo, nil, nopLogger)

	list, err := svc.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers 应成功: %v", err)
	}
	if len(list) != 2 || list[0].ID != "a" || list[1].ID != "b" {
		t.Errorf("应按用户名排序且只返回普通用户: %+v", list)
	}
}

func TestUserService_UpdateProfilePicture(t *testing.T) {
	r := newTestRepos()
	r.addUser("u1", model.RoleUser)
	up := &fakeUploader{calls: make(map[string]string)}
	svc := NewUserService(r.repo, up, nopLogger)

	resp, err := svc.UpdateProfilePicture(context.Background(), "u1", "data:image/png;base64,AAAA")
	if err != nil {
		t.Fatalf("UpdateProfilePicture 应成功: %v", err)
	}
	want := "https://res.example.com/avatar_u1.png"
	if resp.ProfilePic != want {
		t.Errorf("期望头像=%s，实际=%s", want, resp.ProfilePic)
	}
	if r.users.users["u1"].ProfilePic != want {
		t.Error("头像地址应持久化")
	}
	if _, ok := up.calls["avatar_u1"]; !ok {
		t.Error("应以 avatar_<user_id> 作为 public id 上传")
	}
}

func TestUserService_UpdateProfilePicture_Errors(t *testing.T) {
	r := newTestRepos()
	r.addUser("u1", model.RoleUser)
	ctx := context.Background()

	disabled := NewUserService(r.repo, nil, nopLogger)
	if _, err := disabled.UpdateProfilePicture(ctx, "u1", "x"); !errors.Is(err, ErrImageHostDisabled) {
		t.Errorf("期望 ErrImageHostDisabled，实际: %v", err)
	}

	up := &fakeUploader{calls: make(map[string]string)}
	svc := NewUserService(r.repo, up, nopLogger)
	if _, err := svc.UpdateProfilePicture(ctx, "u1", "  "); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("期望 ErrInvalidImage，实际: %v", err)
	}
	if _, err := svc.UpdateProfilePicture(ctx, "ghost", "x"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}

	up.err = errors.New("upstream 500")
	if _, err := svc.UpdateProfilePicture(ctx, "u1", "x"); err == nil {
		t.Error("上传失败应返回错误")
	}
	if r.users.users["u1"].ProfilePic != "" {
		t.Error("上传失败时不应修改头像")
	}
}
