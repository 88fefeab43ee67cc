package sqlite

import (
	"encoding/base64"
	"fmt"
	"net/mail"
	"time"

	"github.com/dekarrin/refa/internal/automaton"
	"github.com/dekarrin/refa/server/dao"
	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
)

// Values are stored in the simplest column type that holds them: IDs, roles
// and emails as TEXT, times as unix seconds, and binary values as base64 TEXT.

func convertToDB_UUID(u uuid.UUID) string {
	return u.String()
}

func convertFromDB_UUID(s string, target *uuid.UUID) error {
	u, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	*target = u
	return nil
}

func convertToDB_Role(r dao.Role) string {
	return r.String()
}

func convertFromDB_Role(s string, target *dao.Role) error {
	r, err := dao.ParseRole(s)
	if err != nil {
		return err
	}
	*target = r
	return nil
}

func convertToDB_Email(email *mail.Address) string {
	if email == nil {
		return ""
	}
	return email.Address
}

func convertFromDB_Email(s string, target **mail.Address) error {
	if s == "" {
		*target = nil
		return nil
	}

	email, err := mail.ParseAddress(s)
	if err != nil {
		return err
	}
	*target = email
	return nil
}

func convertToDB_Time(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func convertFromDB_Time(secs int64, target *time.Time) error {
	if secs == 0 {
		*target = time.Time{}
		return nil
	}
	*target = time.Unix(secs, 0)
	return nil
}

func convertToDB_DFA(dfa automaton.DFA) string {
	return base64.StdEncoding.EncodeToString(rezi.EncBinary(dfa))
}

func convertFromDB_DFA(s string, target *automaton.DFA) error {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return err
	}

	var dfa automaton.DFA
	if _, err := rezi.DecBinary(data, &dfa); err != nil {
		return err
	}
	*target = dfa
	return nil
}

func convertToDB_Strings(strs []string) string {
	data := rezi.EncInt(len(strs))
	for _, s := range strs {
		data = append(data, rezi.EncString(s)...)
	}
	return base64.StdEncoding.EncodeToString(data)
}

func convertFromDB_Strings(s string, target *[]string) error {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return err
	}

	count, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("count: %w", err)
	}
	data = data[n:]

	var strs []string
	for i := 0; i < count; i++ {
		str, n, err := rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("string %d: %w", i, err)
		}
		data = data[n:]
		strs = append(strs, str)
	}

	*target = strs
	return nil
}
