package seeds

import (
	"github.com/kaushal1717/vibe-helper/internal/models"
	"github.com/lib/pq"
)

// SampleRules returns the starter rules seeded for fresh environments.
func SampleRules() []models.CursorRule {
	return []models.CursorRule{
		{
			Title:       "React Best Practices",
			TechStack:   "React",
			Description: "Essential React development guidelines",
			Tags:        pq.StringArray{"react", "typescript", "frontend"},
			IsPublic:    true,
			Content: `You are an expert in React and TypeScript.

Key Principles:
- Write functional components with hooks
- Use TypeScript for type safety
- Follow React naming conventions (PascalCase for components)
- Use prop destructuring
- Implement proper error boundaries
- Optimize with React.memo when needed

Code Style:
- Use arrow functions for components
- Prefer composition over inheritance
- Keep components small and focused
- Use custom hooks for reusable logic`,
		},
		{
			Title:       "Next.js 14 App Router",
			TechStack:   "Next.js",
			Description: "Guidelines for Next.js 14 with App Router",
			Tags:        pq.StringArray{"nextjs", "react", "app-router"},
			IsPublic:    true,
			Content: `You are an expert in Next.js 14, React, and TypeScript.

Key Principles:
- Use App Router (app/ directory)
- Implement Server Components by default
- Use 'use client' directive only when needed
- Leverage Server Actions for mutations
- Implement proper loading and error states
- Use TypeScript for type safety

File Structure:
- page.tsx for pages
- layout.tsx for layouts
- loading.tsx for loading states
- error.tsx for error boundaries
- route.ts for API routes

Performance:
- Use Image component for images
- Implement proper metadata
- Optimize fonts with next/font
- Use dynamic imports for code splitting`,
		},
		{
			Title:       "TypeScript Advanced Patterns",
			TechStack:   "TypeScript",
			Description: "Advanced TypeScript patterns and practices",
			Tags:        pq.StringArray{"typescript", "patterns"},
			IsPublic:    true,
			Content: `You are an expert in TypeScript.

Key Principles:
- Use strict mode
- Leverage type inference
- Avoid 'any' type
- Use union types and type guards
- Implement proper generics
- Use utility types (Partial, Pick, Omit, etc.)

Best Practices:
- Define interfaces for object shapes
- Use enums for fixed sets of values
- Implement proper error handling with custom types
- Use const assertions when appropriate
- Leverage discriminated unions
- Document complex types with JSDoc`,
		},
		{
			Title:       "Tailwind CSS Conventions",
			TechStack:   "Tailwind CSS",
			Description: "Tailwind CSS best practices and conventions",
			Tags:        pq.StringArray{"tailwind", "css", "styling"},
			IsPublic:    true,
			Content: `You are an expert in Tailwind CSS.

Key Principles:
- Use utility-first approach
- Follow mobile-first responsive design
- Use consistent spacing scale
- Leverage Tailwind's color palette
- Use custom configuration sparingly

Best Practices:
- Group utilities logically (layout, spacing, colors, typography)
- Use @apply for repeated patterns in components
- Implement dark mode with dark: prefix
- Use arbitrary values [value] only when necessary
- Extract components for repeated patterns
- Use Tailwind plugins for extended functionality`,
		},
		{
			Title:       "Node.js API Development",
			TechStack:   "Node.js",
			Description: "Best practices for Node.js API development",
			Tags:        pq.StringArray{"nodejs", "api", "backend"},
			IsPublic:    true,
			Content: `You are an expert in Node.js, Express, and TypeScript.

Key Principles:
- Use Express.js for REST APIs
- Implement proper error handling
- Use middleware for cross-cutting concerns
- Validate input data
- Use environment variables for configuration
- Implement proper logging

Security:
- Use helmet for security headers
- Implement rate limiting
- Validate and sanitize user input
- Use CORS properly
- Hash passwords with bcrypt
- Use JWT for authentication

Performance:
- Implement caching where appropriate
- Use connection pooling for databases
- Handle async operations properly
- Implement proper error handling`,
		},
	}
}

// DefaultSystemSettings are the toggles a fresh install starts with.
func DefaultSystemSettings() []models.SystemSettings {
	return []models.SystemSettings{
		{Key: models.SettingMaintenanceMode, Value: "false"},
		{Key: models.SettingMaintenanceETA, Value: ""},
		{Key: models.SettingRegistrationOpen, Value: "true"},
		{Key: models.SettingRulesEnabled, Value: "true"},
	}
}
