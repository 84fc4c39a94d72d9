package services

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/boylish/Task-Manager-backend/logging"
	"github.com/boylish/Task-Manager-backend/models"
	"github.com/boylish/Task-Manager-backend/utils"
)

// UserService owns the user collection: registration, login, profiles and the
// admin-facing user listing with task counts.
type UserService struct {
	usersCollection  *mongo.Collection
	tasksCollection  *mongo.Collection
	adminInviteToken string
}

func NewUserService(usersCollection, tasksCollection *mongo.Collection, adminInviteToken string) *UserService {
	return &UserService{
		usersCollection:  usersCollection,
		tasksCollection:  tasksCollection,
		adminInviteToken: adminInviteToken,
	}
}

type RegisterInput struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	ProfileImageURL  string `json:"profileImageUrl"`
	AdminInviteToken string `json:"adminInviteToken"`
}

// Register creates an account. The admin role is granted only when the supplied
// invite token matches the configured one; everything else registers as a user.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*models.User, string, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, "", validationErr("name", "name is required")
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, "", validationErr("email", "email is required")
	}
	if err := utils.ValidatePassword(input.Password); err != nil {
		return nil, "", validationErr("password", err.Error())
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	var existing models.User
	err := s.usersCollection.FindOne(ctx, bson.M{"email": email}).Decode(&existing)
	if err == nil {
		return nil, "", validationErr("email", "an account with this email already exists")
	}
	if err != mongo.ErrNoDocuments {
		return nil, "", fmt.Errorf("failed to check existing user: %v", err)
	}

	role := models.RoleUser
	if s.adminInviteToken != "" && input.AdminInviteToken == s.adminInviteToken {
		role = models.RoleAdmin
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, "", err
	}

	now := time.Now()
	user := &models.User{
		ID:              primitive.NewObjectID(),
		Name:            html.EscapeString(strings.TrimSpace(input.Name)),
		Email:           email,
		Password:        hashed,
		ProfileImageURL: input.ProfileImageURL,
		Role:            role,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := s.usersCollection.InsertOne(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to save user: %v", err)
	}

	token, err := utils.GenerateToken(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %v", err)
	}

	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: User %s registered with role %s", user.ID.Hex(), user.Role)
	return user, token, nil
}

// Login verifies credentials and issues a bearer token. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := s.usersCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to retrieve user: %v", err)
	}

	if !utils.CheckPassword(user.Password, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %v", err)
	}

	logging.Logger.Infof("Event ID: USER_LOGIN, Description: User %s logged in", user.ID.Hex())
	return &user, token, nil
}

// GetProfile returns the principal's own user document.
func (s *UserService) GetProfile(ctx context.Context, principal models.Principal) (*models.User, error) {
	return s.GetUserByID(ctx, principal.ID)
}

type ProfilePatch struct {
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	Password        *string `json:"password"`
	ProfileImageURL *string `json:"profileImageUrl"`
}

// UpdateProfile applies a partial update to the principal's own account and
// re-issues a token so role and identity claims stay current.
func (s *UserService) UpdateProfile(ctx context.Context, principal models.Principal, patch ProfilePatch) (*models.User, string, error) {
	user, err := s.GetUserByID(ctx, principal.ID)
	if err != nil {
		return nil, "", err
	}

	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, "", validationErr("name", "name cannot be empty")
		}
		user.Name = html.EscapeString(strings.TrimSpace(*patch.Name))
	}
	if patch.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*patch.Email))
		if email == "" {
			return nil, "", validationErr("email", "email cannot be empty")
		}
		user.Email = email
	}
	if patch.Password != nil {
		if err := utils.ValidatePassword(*patch.Password); err != nil {
			return nil, "", validationErr("password", err.Error())
		}
		hashed, err := utils.HashPassword(*patch.Password)
		if err != nil {
			return nil, "", err
		}
		user.Password = hashed
	}
	if patch.ProfileImageURL != nil {
		user.ProfileImageURL = *patch.ProfileImageURL
	}
	user.UpdatedAt = time.Now()

	if _, err := s.usersCollection.ReplaceOne(ctx, bson.M{"_id": user.ID}, user); err != nil {
		return nil, "", fmt.Errorf("failed to update profile: %v", err)
	}

	token, err := utils.GenerateToken(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %v", err)
	}

	return user, token, nil
}

// ListUsers returns every member account together with its per-status assigned
// task counts. Admin accounts are not listed.
func (s *UserService) ListUsers(ctx context.Context) ([]models.UserWithTaskCounts, error) {
	opts := options.Find().SetProjection(bson.M{"password": 0})
	cursor, err := s.usersCollection.Find(ctx, bson.M{"role": models.RoleUser}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve users: %v", err)
	}
	defer cursor.Close(ctx)

	users := []models.UserWithTaskCounts{}
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			return nil, fmt.Errorf("failed to decode user: %v", err)
		}

		row := models.UserWithTaskCounts{User: user}
		if row.PendingTasks, err = s.countAssigned(ctx, user.ID, models.StatusPending); err != nil {
			return nil, err
		}
		if row.InProgressTasks, err = s.countAssigned(ctx, user.ID, models.StatusInProgress); err != nil {
			return nil, err
		}
		if row.CompletedTasks, err = s.countAssigned(ctx, user.ID, models.StatusCompleted); err != nil {
			return nil, err
		}
		users = append(users, row)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return users, nil
}

// GetUserByID returns a user by id, without the password hash.
func (s *UserService) GetUserByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.usersCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user: %v", err)
	}
	return &user, nil
}

// DeleteUser removes the account and withdraws it from every task assignment so
// task documents never reference a deleted user.
func (s *UserService) DeleteUser(ctx context.Context, userID primitive.ObjectID) error {
	result, err := s.usersCollection.DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete user: %v", err)
	}
	if result.DeletedCount == 0 {
		return ErrUserNotFound
	}

	update := bson.M{"$pull": bson.M{"assignedTo": userID}}
	if _, err := s.tasksCollection.UpdateMany(ctx, bson.M{"assignedTo": userID}, update); err != nil {
		return fmt.Errorf("failed to remove user from task assignments: %v", err)
	}

	logging.Logger.Infof("Event ID: USER_DELETED, Description: User %s deleted and removed from task assignments", userID.Hex())
	return nil
}

func (s *UserService) countAssigned(ctx context.Context, userID primitive.ObjectID, status models.TaskStatus) (int64, error) {
	count, err := s.tasksCollection.CountDocuments(ctx, bson.M{"assignedTo": userID, "status": status})
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %v", err)
	}
	return count, nil
}
