package repositories

import "database/sql"

// EnsureSchema creates the tables the booking core relies on when they are
// absent. The trips unique key backs the one-trip-per-(route, departure)
// guarantee; inserts racing on the same key fail with a duplicate entry and
// re-fetch the winner.
func EnsureSchema(db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS companies (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(120) NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
		`CREATE TABLE IF NOT EXISTS users (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	company_id BIGINT NOT NULL,
	name VARCHAR(120) NOT NULL,
	email VARCHAR(120) NOT NULL,
	password_hash VARCHAR(100) NOT NULL,
	role VARCHAR(30) NOT NULL DEFAULT 'operator',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_user_email (email),
	KEY idx_user_company (company_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
		`CREATE TABLE IF NOT EXISTS routes (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	company_id BIGINT NOT NULL,
	name VARCHAR(120) NOT NULL,
	description TEXT,
	is_active TINYINT(1) NOT NULL DEFAULT 1,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_route_company (company_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
		`CREATE TABLE IF NOT EXISTS route_schedules (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	route_id BIGINT NOT NULL,
	day_of_week TINYINT NOT NULL,
	is_active TINYINT(1) NOT NULL DEFAULT 1,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_schedule_route (route_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
		`CREATE TABLE IF NOT EXISTS stops (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	company_id BIGINT NOT NULL,
	name VARCHAR(120) NOT NULL,
	KEY idx_stop_company (company_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
		`CREATE TABLE IF NOT EXISTS route_stops (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	route_id BIGINT NOT NULL,
	stop_id BIGINT NOT NULL,
	seq INT NOT NULL,
	departure_time VARCHAR(5) NULL,
	UNIQUE KEY uniq_route_seq (route_id, seq),
	KEY idx_route_stop_route (route_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
		`CREATE TABLE IF NOT EXISTS trips (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	route_id BIGINT NOT NULL,
	company_id BIGINT NOT NULL,
	departure_time DATETIME NOT NULL,
	estimated_arrival_time DATETIME NOT NULL,
	actual_departure_time DATETIME NULL,
	actual_arrival_time DATETIME NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'scheduled',
	total_seats INT NOT NULL DEFAULT 0,
	available_seats INT NOT NULL DEFAULT 0,
	base_price BIGINT NOT NULL DEFAULT 0,
	is_auto_generated TINYINT(1) NOT NULL DEFAULT 0,
	observations TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_route_departure (route_id, departure_time),
	KEY idx_trip_company (company_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
		`CREATE TABLE IF NOT EXISTS trip_vehicles (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	trip_id BIGINT NOT NULL,
	vehicle_id BIGINT NOT NULL,
	capacity INT NOT NULL,
	primary_driver_id BIGINT NOT NULL,
	secondary_driver_id BIGINT NULL,
	is_active TINYINT(1) NOT NULL DEFAULT 1,
	KEY idx_trip_vehicle_trip (trip_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
		`CREATE TABLE IF NOT EXISTS tickets (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	trip_id BIGINT NOT NULL,
	company_id BIGINT NOT NULL,
	passenger_name VARCHAR(100) NOT NULL,
	passenger_document VARCHAR(20) NULL,
	passenger_phone VARCHAR(20) NOT NULL,
	passenger_email VARCHAR(100) NULL,
	seat_number VARCHAR(10) NULL,
	price BIGINT NOT NULL DEFAULT 0,
	status VARCHAR(20) NOT NULL DEFAULT 'reserved',
	boarding_point_type VARCHAR(20) NOT NULL,
	boarding_stop_id BIGINT NULL,
	boarding_location_description TEXT,
	boarding_latitude DECIMAL(10,8) NULL,
	boarding_longitude DECIMAL(11,8) NULL,
	landing_point_type VARCHAR(20) NOT NULL,
	landing_stop_id BIGINT NULL,
	landing_location_description TEXT,
	landing_latitude DECIMAL(10,8) NULL,
	landing_longitude DECIMAL(11,8) NULL,
	observations TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	KEY idx_ticket_trip (trip_id),
	KEY idx_ticket_company (company_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
	}

	for _, stmt := range ddl {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
