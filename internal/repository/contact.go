// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"codeberg.org/oliverandrich/clarity/internal/models"
)

// CountContactMessagesSince counts messages sent from an address since the given time.
func (r *Repository) CountContactMessagesSince(ctx context.Context, ip string, since time.Time) (int64, error) {
	var count int64
	err := r.get(ctx, r.db, &count,
		`SELECT COUNT(*) FROM contact_messages WHERE ip_address = ? AND created_at > ?`, ip, since.UTC())
	return count, err
}

// CreateContactMessage stores a contact form submission.
func (r *Repository) CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error {
	now := r.timestamp()
	id, err := r.insert(ctx, r.db,
		`INSERT INTO contact_messages (reference, name, email, subject, message, ip_address, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		msg.Reference, msg.Name, msg.Email, msg.Subject, msg.Message, msg.IPAddress, now)
	if err != nil {
		return err
	}
	msg.ID = id
	msg.CreatedAt = now
	return nil
}
