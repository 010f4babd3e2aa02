package definition

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schema-forge/internal/column"
	"schema-forge/internal/datatype"
	"schema-forge/internal/model"
	"schema-forge/internal/schema"
	"schema-forge/internal/utils"
)

func articleAttributes() column.Attributes {
	return column.Attributes{
		{Name: "id", Column: column.UUID().PrimaryKey().Default(datatype.UUIDV4)},
		{Name: "title", Column: column.String(200).NotNull()},
		{Name: "status", Column: column.Enum("draft", "published").NotNull().Default("draft")},
		{Name: "views", Column: column.Integer().NotNull().Default(0)},
		{Name: "body", Column: column.Text()},
		{Name: "meta", Column: column.JSON()},
		{Name: "published_at", Column: column.Date()},
	}
}

func TestDefineModel(t *testing.T) {
	m, err := DefineModel("articles", articleAttributes())
	require.NoError(t, err)

	assert.Equal(t, "articles", m.Name())
	assert.Equal(t, "articles", m.TableName())

	raw := m.RawAttributes()
	require.Len(t, raw, 7)
	assert.Equal(t, []string{"id", "title", "status", "views", "body", "meta", "published_at"}, namesOf(raw))

	id, _ := raw.Get("id")
	assert.Equal(t, "UUID", id.Type.Key())
	require.NotNil(t, id.AllowNull)
	assert.False(t, *id.AllowNull)
	assert.True(t, id.HasDefault)

	status, _ := raw.Get("status")
	assert.Equal(t, []string{"draft", "published"}, status.Values)

	s := m.GormSchema()
	require.NotNil(t, s)
	require.NotNil(t, s.PrioritizedPrimaryField)
	assert.Equal(t, "id", s.PrioritizedPrimaryField.DBName)
	assert.NotNil(t, s.LookUpField("published_at"))
}

func TestDefineModelStructType(t *testing.T) {
	m, err := DefineModel("articles", articleAttributes())
	require.NoError(t, err)

	instance := m.New()
	rt := reflect.TypeOf(instance)
	require.Equal(t, reflect.Pointer, rt.Kind())
	st := rt.Elem()

	title, ok := st.FieldByName("Title")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(""), title.Type)
	assert.Equal(t, "title", title.Tag.Get("json"))

	body, _ := st.FieldByName("Body")
	assert.Equal(t, reflect.TypeOf((*string)(nil)), body.Type, "nullable columns are pointers")

	meta, _ := st.FieldByName("Meta")
	assert.Equal(t, reflect.TypeOf(json.RawMessage(nil)), meta.Type)

	publishedAt, _ := st.FieldByName("PublishedAt")
	assert.Equal(t, reflect.TypeOf((*time.Time)(nil)), publishedAt.Type)

	slice := m.NewSlice()
	assert.Equal(t, reflect.Slice, reflect.TypeOf(slice).Elem().Kind())
}

func TestDefineModelSchemasMatchBuilders(t *testing.T) {
	m, err := DefineModel("articles", articleAttributes())
	require.NoError(t, err)

	for _, v := range schema.Variants {
		fromModel, err := schema.CreateSchema(schema.FromModel(m), v, nil)
		require.NoError(t, err)
		fromBuilders, err := schema.CreateSchema(schema.FromAttributes(articleAttributes()), v, nil)
		require.NoError(t, err)
		assert.Equal(t, fromBuilders.Describe(), fromModel.Describe(), string(v))
	}
}

func TestPrimaryKeyNullabilityRoundTrip(t *testing.T) {
	attrs := column.Attributes{
		{Name: "code", Column: column.String(8).PrimaryKey()},
		{Name: "alt", Column: column.Integer().PrimaryKey().AllowNull(true)},
		{Name: "note", Column: column.Text()},
	}
	m, err := DefineModel("codes", attrs)
	require.NoError(t, err)

	fromModel, err := schema.GetDescriptors(schema.FromModel(m))
	require.NoError(t, err)

	tests := []struct {
		name      string
		allowNull bool
	}{
		{"code", false},
		{"alt", true},
		{"note", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ok := attrs.Get(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.allowNull, b.SchemaDescriptor().AllowNull)

			d, ok := fromModel.Get(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.allowNull, d.AllowNull)
		})
	}

	// a raw attribute that declares nothing stays nullable
	raw := schema.RawAttributesToDescriptors(schema.RawAttributes{{Name: "code", Type: datatype.Token(datatype.String(8))}})
	assert.True(t, raw[0].AllowNull)
}

func TestDefineModelErrors(t *testing.T) {
	_, err := DefineModel(" ", articleAttributes())
	require.Error(t, err)
	assert.True(t, utils.IsErrorType(err, utils.ErrCodeModelDefinition))

	_, err = DefineModel("broken", column.Attributes{{Name: "x"}})
	require.Error(t, err)
	assert.True(t, utils.IsErrorType(err, utils.ErrCodeModelDefinition))
}

type Account struct {
	ID        uint      `gorm:"primaryKey"`
	PublicID  uuid.UUID `gorm:"uniqueIndex"`
	Email     string    `gorm:"size:255;not null"`
	Plan      string    `gorm:"type:enum('free','pro');default:'free'"`
	Balance   float64
	Active    bool `gorm:"default:true"`
	Avatar    []byte
	Nickname  *string
	CreatedAt time.Time
	Ignored   string `gorm:"-"`
}

func TestFromGorm(t *testing.T) {
	m, err := FromGorm(&Account{})
	require.NoError(t, err)

	assert.Equal(t, "Account", m.Name())
	assert.Equal(t, "accounts", m.TableName())

	descriptors := schema.RawAttributesToDescriptors(m.RawAttributes())
	assert.Equal(t, []string{"id", "public_id", "email", "plan", "balance", "active", "avatar", "nickname", "created_at"}, descriptors.Names())

	tests := []struct {
		name     string
		category model.Category
		nullable bool
	}{
		{"id", model.CategoryInteger, false},
		{"public_id", model.CategoryUUID, true},
		{"email", model.CategoryString, false},
		{"plan", model.CategoryEnum, true},
		{"balance", model.CategoryFloat, true},
		{"active", model.CategoryBoolean, true},
		{"avatar", model.CategoryBlob, true},
		{"nickname", model.CategoryString, true},
		{"created_at", model.CategoryDate, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := descriptors.Get(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.category, d.Category)
			assert.Equal(t, tt.nullable, d.AllowNull)
		})
	}

	id, _ := descriptors.Get("id")
	assert.True(t, id.IsGenerated, "gorm treats integer primary keys as auto increment")

	plan, _ := descriptors.Get("plan")
	assert.Equal(t, []string{"free", "pro"}, plan.EnumValues)
	assert.True(t, plan.HasDefault)

	active, _ := descriptors.Get("active")
	assert.True(t, active.HasDefault)
}

func TestFromGormErrors(t *testing.T) {
	_, err := FromGorm(nil)
	require.Error(t, err)
	assert.True(t, utils.IsErrorType(err, utils.ErrCodeModelDefinition))

	_, err = FromGorm(42)
	require.Error(t, err)
	assert.True(t, utils.IsErrorType(err, utils.ErrCodeModelDefinition))
}

func TestGoFieldName(t *testing.T) {
	used := map[string]int{}
	assert.Equal(t, "CreatedAt", goFieldName("created_at", used))
	assert.Equal(t, "CreatedAt2", goFieldName("createdAt", used))
	assert.Equal(t, "F1st", goFieldName("1st", used))
	assert.Equal(t, "F", goFieldName("__", used))
}

func namesOf(raw schema.RawAttributes) []string {
	names := make([]string, len(raw))
	for i, attr := range raw {
		names[i] = attr.Name
	}
	return names
}
