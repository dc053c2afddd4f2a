package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE COMPANIES
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create companies table
-- Version: 001

CREATE TABLE IF NOT EXISTS companies (
    id SERIAL PRIMARY KEY,
    company_name VARCHAR(100) NOT NULL UNIQUE,
    commander VARCHAR(100),
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

-- The default unit every ingested cadet is assigned to. The loader treats
-- its absence as a fatal precondition, so it is seeded here.
INSERT INTO companies (company_name, commander)
VALUES ('Alpha Company', 'Cpt. N. Mokoena')
ON CONFLICT (company_name) DO NOTHING;
`

const migration001Down = `
DROP TABLE IF EXISTS companies;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE STUDENTS
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create students table
-- Version: 002

CREATE TABLE IF NOT EXISTS students (
    id SERIAL PRIMARY KEY,
    service_number VARCHAR(20) NOT NULL UNIQUE,
    first_name VARCHAR(100) NOT NULL,
    last_name VARCHAR(100),
    email VARCHAR(255) NOT NULL UNIQUE,
    phone VARCHAR(20),
    date_of_birth DATE,
    rank VARCHAR(20) NOT NULL DEFAULT 'Recruit',
    status VARCHAR(20) NOT NULL DEFAULT 'Active',
    company_id INTEGER NOT NULL REFERENCES companies(id),
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_rank CHECK (rank IN ('Recruit', 'Cadet', 'Private', 'Corporal')),
    CONSTRAINT valid_status CHECK (status IN ('Active', 'Graduated', 'Discharged'))
);

CREATE INDEX IF NOT EXISTS idx_students_email ON students(email);
CREATE INDEX IF NOT EXISTS idx_students_company_id ON students(company_id);
`

const migration002Down = `
DROP TABLE IF EXISTS students;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: CREATE COURSES
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create courses table
-- Version: 003

CREATE TABLE IF NOT EXISTS courses (
    id SERIAL PRIMARY KEY,
    course_code VARCHAR(20) NOT NULL UNIQUE,
    course_name VARCHAR(200) NOT NULL,
    department VARCHAR(100),
    credits INTEGER NOT NULL,
    difficulty VARCHAR(20) NOT NULL DEFAULT 'Basic',
    description TEXT,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_credits CHECK (credits > 0),
    CONSTRAINT valid_difficulty CHECK (difficulty IN ('Basic', 'Intermediate', 'Advanced'))
);

CREATE INDEX IF NOT EXISTS idx_courses_code ON courses(course_code);
CREATE INDEX IF NOT EXISTS idx_courses_department ON courses(department);
`

const migration003Down = `
DROP TABLE IF EXISTS courses;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 004: CREATE ENROLLMENTS, GRADES, ATTENDANCE
// ══════════════════════════════════════════════════════════════════════════════

const migration004Up = `
-- Migration: Create enrollments and their grade and attendance logs
-- Version: 004

CREATE TABLE IF NOT EXISTS enrollments (
    id SERIAL PRIMARY KEY,
    student_id INTEGER NOT NULL REFERENCES students(id) ON DELETE CASCADE,
    course_id INTEGER NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
    start_date DATE NOT NULL DEFAULT CURRENT_DATE,
    status VARCHAR(20) NOT NULL DEFAULT 'Enrolled',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT uq_enrollment UNIQUE (student_id, course_id),
    CONSTRAINT valid_enrollment_status CHECK (status IN ('Enrolled', 'Completed', 'Withdrawn'))
);

CREATE INDEX IF NOT EXISTS idx_enrollments_student_id ON enrollments(student_id);
CREATE INDEX IF NOT EXISTS idx_enrollments_course_id ON enrollments(course_id);

CREATE TABLE IF NOT EXISTS grades (
    id SERIAL PRIMARY KEY,
    enrollment_id INTEGER NOT NULL REFERENCES enrollments(id) ON DELETE CASCADE,
    assessment_type VARCHAR(100) NOT NULL,
    score DECIMAL(5,2) NOT NULL,
    weight DECIMAL(4,2) NOT NULL DEFAULT 1.00,
    assessment_date DATE NOT NULL DEFAULT CURRENT_DATE,
    remarks TEXT,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_score CHECK (score >= 0 AND score <= 100)
);

CREATE INDEX IF NOT EXISTS idx_grades_enrollment_id ON grades(enrollment_id);

CREATE TABLE IF NOT EXISTS attendance (
    id SERIAL PRIMARY KEY,
    enrollment_id INTEGER NOT NULL REFERENCES enrollments(id) ON DELETE CASCADE,
    muster_date DATE NOT NULL,
    status VARCHAR(20) NOT NULL,
    remarks TEXT,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_attendance_status CHECK (status IN ('Present', 'Late', 'Absent', 'Excused', 'AWOL'))
);

CREATE INDEX IF NOT EXISTS idx_attendance_enrollment_id ON attendance(enrollment_id);
CREATE INDEX IF NOT EXISTS idx_attendance_muster_date ON attendance(muster_date);
`

const migration004Down = `
DROP TABLE IF EXISTS attendance;
DROP TABLE IF EXISTS grades;
DROP TABLE IF EXISTS enrollments;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 005: CREATE STUDENT STATS
// ══════════════════════════════════════════════════════════════════════════════

const migration005Up = `
-- Migration: Create aggregated per-student stats
-- Version: 005

CREATE TABLE IF NOT EXISTS student_stats (
    id SERIAL PRIMARY KEY,
    student_id INTEGER NOT NULL UNIQUE REFERENCES students(id) ON DELETE CASCADE,
    mean_score DECIMAL(5,2) NOT NULL DEFAULT 0.00,
    graded_count INTEGER NOT NULL DEFAULT 0,
    gpa DECIMAL(3,2) NOT NULL DEFAULT 0.00,
    attendance_rate DECIMAL(5,2) NOT NULL DEFAULT 100.00,
    attendance_events INTEGER NOT NULL DEFAULT 0,
    standing VARCHAR(20) NOT NULL DEFAULT 'Good Standing',
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_gpa CHECK (gpa >= 0 AND gpa <= 4),
    CONSTRAINT valid_attendance_rate CHECK (attendance_rate >= 0 AND attendance_rate <= 100),
    CONSTRAINT valid_standing CHECK (standing IN ('Honor Roll', 'Good Standing', 'Academic Warning'))
);

CREATE INDEX IF NOT EXISTS idx_student_stats_gpa ON student_stats(gpa DESC);
CREATE INDEX IF NOT EXISTS idx_student_stats_standing ON student_stats(standing);
`

const migration005Down = `
DROP TABLE IF EXISTS student_stats;
`
