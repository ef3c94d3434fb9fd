// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/swisscoin/swisscoin/internal/models"
)

// Store defines the interface for Swiss Coin storage operations.
// This abstraction allows swapping storage backends without changing the
// service layer.
type Store interface {
	// People
	CreatePerson(ctx context.Context, person *models.Person) error
	GetPerson(ctx context.Context, personID string) (*models.Person, error)
	ListPersons(ctx context.Context) ([]*models.Person, error)
	DeletePerson(ctx context.Context, personID string) error

	// Users (accounts)
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Expenses. CreateExpense persists the expense with its splits and
	// payers atomically; GetExpense returns the full aggregate.
	CreateExpense(ctx context.Context, expense *models.Expense) error
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)
	ListExpenses(ctx context.Context) ([]*models.Expense, error)
	DeleteExpense(ctx context.Context, expenseID string) error

	// Settlements
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error
	ListSettlements(ctx context.Context) ([]*models.Settlement, error)
	DeleteSettlement(ctx context.Context, settlementID string) error

	// Subscriptions
	CreateSubscription(ctx context.Context, sub *models.Subscription) error
	GetSubscription(ctx context.Context, subID string) (*models.Subscription, error)
	ListSubscriptions(ctx context.Context, includeArchived bool) ([]*models.Subscription, error)
	UpdateSubscription(ctx context.Context, sub *models.Subscription) error
	DeleteSubscription(ctx context.Context, subID string) error

	CreateSubscriptionPayment(ctx context.Context, payment *models.SubscriptionPayment) error
	ListSubscriptionPayments(ctx context.Context, subID string) ([]*models.SubscriptionPayment, error)

	CreateSubscriptionSettlement(ctx context.Context, settlement *models.SubscriptionSettlement) error
	ListSubscriptionSettlements(ctx context.Context, subID string) ([]*models.SubscriptionSettlement, error)

	// Close releases any resources held by the store.
	Close() error
}
