package gym

import "context"

type Repository interface {
	GetAllGyms(ctx context.Context) ([]Gym, error)
	GetGymByID(ctx context.Context, id int64) (*Gym, error)
	SearchGyms(ctx context.Context, q, city string) ([]Gym, error)

	GetClasses(ctx context.Context, filter ClassFilter) ([]Class, error)
	GetClassByID(ctx context.Context, id int64) (*Class, error)

	GetSchedules(ctx context.Context, window ScheduleWindow) ([]ScheduleWithClass, error)
	CreateSchedule(ctx context.Context, s *Schedule) error
}
