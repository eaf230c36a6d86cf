package postgres

import (
	"context"
	"errors"
	"fmt"

	"kids-carpool/internal/domain/carpool"
	"kids-carpool/internal/domain/directory"
	"kids-carpool/internal/ports"

	"github.com/jackc/pgx/v5"
)

// ----- Children -----

// ChildRepo persists child profiles.
type ChildRepo struct{}

// NewChildRepo constructs a new ChildRepo.
func NewChildRepo() ports.ChildRepository {
	return &ChildRepo{}
}

func (repo *ChildRepo) Create(ctx context.Context, c *directory.Child) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	return tx.QueryRow(ctx, `
		INSERT INTO children (
			parent_id, school_id, name, age, grade,
			emergency_contact_name, emergency_contact_phone, medical_info, special_needs
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`,
		c.ParentID, c.SchoolID, c.Name, c.Age, c.Grade,
		c.EmergencyContactName, c.EmergencyContactPhone, c.MedicalInfo, c.SpecialNeeds,
	).Scan(&c.ID, &c.CreatedAt)
}

func (repo *ChildRepo) GetByID(ctx context.Context, id string) (*directory.Child, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var c directory.Child
	err = tx.QueryRow(ctx, `
		SELECT id, created_at, parent_id, school_id, name, age, grade,
		       emergency_contact_name, emergency_contact_phone, medical_info, special_needs
		FROM children WHERE id = $1
	`, id).Scan(
		&c.ID, &c.CreatedAt, &c.ParentID, &c.SchoolID, &c.Name, &c.Age, &c.Grade,
		&c.EmergencyContactName, &c.EmergencyContactPhone, &c.MedicalInfo, &c.SpecialNeeds,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: child %s", carpool.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get child: %w", err)
	}
	return &c, nil
}

func (repo *ChildRepo) ListByParent(ctx context.Context, parentID string) ([]*directory.Child, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT id, created_at, parent_id, school_id, name, age, grade,
		       emergency_contact_name, emergency_contact_phone, medical_info, special_needs
		FROM children WHERE parent_id = $1 ORDER BY created_at ASC
	`, parentID)
	if err != nil {
		return nil, fmt.Errorf("query children: %w", err)
	}
	defer rows.Close()

	var out []*directory.Child
	for rows.Next() {
		var c directory.Child
		if err := rows.Scan(
			&c.ID, &c.CreatedAt, &c.ParentID, &c.SchoolID, &c.Name, &c.Age, &c.Grade,
			&c.EmergencyContactName, &c.EmergencyContactPhone, &c.MedicalInfo, &c.SpecialNeeds,
		); err != nil {
			return nil, fmt.Errorf("scan child: %w", err)
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}

// Delete removes a child profile; the parent filter enforces ownership.
func (repo *ChildRepo) Delete(ctx context.Context, id, parentID string) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM children WHERE id = $1 AND parent_id = $2`, id, parentID)
	if err != nil {
		return fmt.Errorf("delete child: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: child %s", carpool.ErrNotFound, id)
	}
	return nil
}

// ----- Schools -----

// SchoolRepo persists school directory entries.
type SchoolRepo struct{}

// NewSchoolRepo constructs a new SchoolRepo.
func NewSchoolRepo() ports.SchoolRepository {
	return &SchoolRepo{}
}

func (repo *SchoolRepo) Create(ctx context.Context, s *directory.School) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	return tx.QueryRow(ctx, `
		INSERT INTO schools (name, address, district)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, s.Name, s.Address, s.District).Scan(&s.ID, &s.CreatedAt)
}

func (repo *SchoolRepo) GetByID(ctx context.Context, id string) (*directory.School, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var s directory.School
	err = tx.QueryRow(ctx, `
		SELECT id, created_at, name, address, district FROM schools WHERE id = $1
	`, id).Scan(&s.ID, &s.CreatedAt, &s.Name, &s.Address, &s.District)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: school %s", carpool.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get school: %w", err)
	}
	return &s, nil
}

func (repo *SchoolRepo) List(ctx context.Context) ([]*directory.School, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `SELECT id, created_at, name, address, district FROM schools ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("query schools: %w", err)
	}
	defer rows.Close()

	var out []*directory.School
	for rows.Next() {
		var s directory.School
		if err := rows.Scan(&s.ID, &s.CreatedAt, &s.Name, &s.Address, &s.District); err != nil {
			return nil, fmt.Errorf("scan school: %w", err)
		}
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}

func (repo *SchoolRepo) Delete(ctx context.Context, id string) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM schools WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete school: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: school %s", carpool.ErrNotFound, id)
	}
	return nil
}

// ----- Messages -----

// MessageRepo persists parent-to-parent messages.
type MessageRepo struct{}

// NewMessageRepo constructs a new MessageRepo.
func NewMessageRepo() ports.MessageRepository {
	return &MessageRepo{}
}

func (repo *MessageRepo) Create(ctx context.Context, m *directory.Message) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	return tx.QueryRow(ctx, `
		INSERT INTO messages (sender_id, receiver_id, content, is_read)
		VALUES ($1, $2, $3, false)
		RETURNING id, created_at
	`, m.SenderID, m.ReceiverID, m.Content).Scan(&m.ID, &m.CreatedAt)
}

// ListForUser returns messages sent or received by the user, newest first.
func (repo *MessageRepo) ListForUser(ctx context.Context, userID string) ([]*directory.Message, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT id, created_at, sender_id, receiver_id, content, is_read
		FROM messages
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var out []*directory.Message
	for rows.Next() {
		var m directory.Message
		if err := rows.Scan(&m.ID, &m.CreatedAt, &m.SenderID, &m.ReceiverID, &m.Content, &m.IsRead); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}

// MarkRead flips is_read; only the receiver may do so.
func (repo *MessageRepo) MarkRead(ctx context.Context, id, receiverID string) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE messages SET is_read = true WHERE id = $1 AND receiver_id = $2
	`, id, receiverID)
	if err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: message %s", carpool.ErrNotFound, id)
	}
	return nil
}
