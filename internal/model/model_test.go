package model

import (
	"testing"
	"time"
)

func TestSubjectIsValid(t *testing.T) {
	t.Parallel()

	for _, s := range []Subject{SubjectPost, SubjectReview, SubjectPhishing} {
		if !s.IsValid() {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range []Subject{"", "comment", "Post"} {
		if s.IsValid() {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestReportStatusIsValid(t *testing.T) {
	t.Parallel()

	for _, s := range []ReportStatus{ReportStatusPending, ReportStatusConfirmed, ReportStatusDismissed} {
		if !s.IsValid() {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range []ReportStatus{"", "resolved", "Pending"} {
		if s.IsValid() {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestVoteValueIsValid(t *testing.T) {
	t.Parallel()

	if !VoteLike.IsValid() || !VoteDislike.IsValid() {
		t.Error("like and dislike should be valid")
	}
	for _, v := range []VoteValue{0, 2, -2} {
		if v.IsValid() {
			t.Errorf("%d should be invalid", v)
		}
	}
}

func TestPrivateMessageHelpers(t *testing.T) {
	t.Parallel()

	msg := PrivateMessage{}
	if msg.IsRead() {
		t.Error("message without read_at should be unread")
	}
	if msg.DeletedByBoth() {
		t.Error("fresh message should not be deleted by both")
	}

	now := time.Now()
	msg.ReadAt = &now
	msg.DeletedBySender = true
	if !msg.IsRead() {
		t.Error("message with read_at should be read")
	}
	if msg.DeletedByBoth() {
		t.Error("one-sided delete should not count as both")
	}

	msg.DeletedByReceiver = true
	if !msg.DeletedByBoth() {
		t.Error("both flags set should count as deleted by both")
	}
}

func TestUserHelpers(t *testing.T) {
	t.Parallel()

	hash := "$2a$10$stub"
	empty := ""

	u := User{Role: RoleUser}
	if u.IsAdmin() {
		t.Error("regular user should not be admin")
	}
	if u.HasPassword() {
		t.Error("user without hash should have no password")
	}

	u.PasswordHash = &empty
	if u.HasPassword() {
		t.Error("empty hash should count as no password")
	}

	u.PasswordHash = &hash
	u.Role = RoleAdmin
	if !u.IsAdmin() || !u.HasPassword() {
		t.Error("admin with hash should be admin and have a password")
	}
}
