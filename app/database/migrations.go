package database

import (
	"database/sql"
	"fmt"
	"log"
)

// RunMigrations creates missing tables and applies incremental schema
// updates. Statements are idempotent so the app can run them on every boot.
func RunMigrations(db *sql.DB) error {
	log.Println("Running database migrations...")

	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}

var schemaStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`,

	`CREATE TABLE IF NOT EXISTS comunas (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		nombre VARCHAR(100) UNIQUE NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		rut VARCHAR(15) UNIQUE NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'student',
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		email VARCHAR(255),
		phone VARCHAR(20),
		address TEXT,
		birth_date DATE,
		comuna_id UUID REFERENCES comunas(id) ON DELETE SET NULL,
		ingreso_date DATE,
		active_status VARCHAR(20) NOT NULL DEFAULT 'active',
		password VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS teacher_profiles (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID UNIQUE NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		department VARCHAR(100),
		title VARCHAR(150),
		position VARCHAR(150)
	)`,

	`CREATE TABLE IF NOT EXISTS guardian_profiles (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID UNIQUE NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		payment_pin VARCHAR(12)
	)`,

	`CREATE TABLE IF NOT EXISTS guardian_relations (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		guardian_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		student_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		UNIQUE (guardian_id, student_id)
	)`,

	`CREATE TABLE IF NOT EXISTS grades (
		curso_id VARCHAR(5) PRIMARY KEY,
		curso_nombre VARCHAR(30) UNIQUE NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS classes (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		grade_id VARCHAR(5) NOT NULL REFERENCES grades(curso_id) ON DELETE CASCADE,
		year INT NOT NULL,
		teacher_id UUID REFERENCES users(id) ON DELETE SET NULL,
		UNIQUE (grade_id, year)
	)`,

	`CREATE TABLE IF NOT EXISTS subjects (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(100) NOT NULL,
		class_id UUID NOT NULL REFERENCES classes(id) ON DELETE CASCADE,
		teacher_id UUID REFERENCES users(id) ON DELETE SET NULL,
		UNIQUE (name, class_id)
	)`,

	`CREATE TABLE IF NOT EXISTS subject_schedules (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		subject_id UUID NOT NULL REFERENCES subjects(id) ON DELETE CASCADE,
		day_of_week SMALLINT NOT NULL CHECK (day_of_week BETWEEN 0 AND 4),
		start_time TIME NOT NULL,
		end_time TIME NOT NULL,
		CHECK (end_time > start_time),
		UNIQUE (subject_id, day_of_week, start_time, end_time)
	)`,

	`CREATE TABLE IF NOT EXISTS enrollments (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		student_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		class_id UUID NOT NULL REFERENCES classes(id) ON DELETE CASCADE,
		date DATE,
		active_status VARCHAR(20) NOT NULL DEFAULT 'active',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (student_id, class_id)
	)`,

	`CREATE TABLE IF NOT EXISTS evaluation_types (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(100) NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS evaluations (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		class_id UUID NOT NULL REFERENCES classes(id) ON DELETE CASCADE,
		subject_id UUID NOT NULL REFERENCES subjects(id) ON DELETE CASCADE,
		teacher_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		evaluation_type_id UUID NOT NULL REFERENCES evaluation_types(id) ON DELETE CASCADE,
		date DATE NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		weight NUMERIC(5,2) NOT NULL DEFAULT 1.0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS grade_results (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		evaluation_id UUID NOT NULL REFERENCES evaluations(id) ON DELETE CASCADE,
		student_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		score NUMERIC(5,2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (evaluation_id, student_id)
	)`,

	`CREATE TABLE IF NOT EXISTS attendance (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		student_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		class_id UUID NOT NULL REFERENCES classes(id) ON DELETE CASCADE,
		date DATE NOT NULL,
		present BOOLEAN NOT NULL,
		justified_absence BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (student_id, class_id, date)
	)`,

	`CREATE TABLE IF NOT EXISTS payments (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		student_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		amount NUMERIC(10,2) NOT NULL CHECK (amount > 0),
		concept VARCHAR(100) NOT NULL DEFAULT 'Mensualidad',
		issue_date DATE NOT NULL DEFAULT CURRENT_DATE,
		due_date DATE,
		paid_at DATE,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		request_id VARCHAR(150) UNIQUE,
		token VARCHAR(120),
		transaction_id VARCHAR(150),
		auth_code VARCHAR(50),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_payments_student ON payments (student_id)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_status ON payments (status)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_token ON payments (token)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_evaluation_types_name ON evaluation_types (name)`,

	// Catalog seeds. Classes and evaluations carry NOT NULL foreign keys into
	// these tables, so a fresh database needs them populated before the admin
	// portal can open a class or a teacher can schedule an evaluation.
	`INSERT INTO grades (curso_id, curso_nombre) VALUES
		('1B', '1° Básico'), ('2B', '2° Básico'), ('3B', '3° Básico'),
		('4B', '4° Básico'), ('5B', '5° Básico'), ('6B', '6° Básico'),
		('7B', '7° Básico'), ('8B', '8° Básico'),
		('1M', '1° Medio'), ('2M', '2° Medio'),
		('3M', '3° Medio'), ('4M', '4° Medio')
		ON CONFLICT (curso_id) DO NOTHING`,

	`INSERT INTO evaluation_types (name, description) VALUES
		('Prueba', 'Prueba escrita de contenidos'),
		('Control', 'Control breve de la unidad en curso'),
		('Trabajo', 'Trabajo práctico o proyecto'),
		('Disertación', 'Exposición oral'),
		('Examen', 'Examen de cierre de semestre')
		ON CONFLICT (name) DO NOTHING`,
}
