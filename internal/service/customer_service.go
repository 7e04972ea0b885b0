package service

import (
	"context"

	"github.com/unclebandit/hvac-backend/internal/model"
	"github.com/unclebandit/hvac-backend/internal/repository"
)

type CustomerService struct {
	Customers repository.CustomerRepositoryInterface
	Equipment repository.EquipmentRepositoryInterface
}

// Detail loads a customer with its equipment and service history.
func (s *CustomerService) Detail(ctx context.Context, id int) (*model.CustomerDetail, error) {
	c, err := s.Customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	equipment, err := s.Equipment.ListByCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	history, err := s.Customers.ServiceHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.CustomerDetail{Customer: *c, Equipment: equipment, ServiceHistory: history}, nil
}
